// Package fuzztests houses Go fuzz harnesses for the input layers of facet:
// the type-reference parser and the declaration-model loader. They guard
// against panics on arbitrary input and check that whatever loads is
// structurally sound.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
