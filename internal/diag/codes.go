package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Файлы декларативной модели
	ModelInfo        Code = 1000
	ModelInvalidFile Code = 1001
	ModelReadFailed  Code = 1002

	// Фаза макросов
	MacroInfo                 Code = 2000
	MacroFrozenModel          Code = 2001
	MacroInvalidArgument      Code = 2002
	MacroInvalidTypeReference Code = 2003
	MacroCapabilityMismatch   Code = 2004
	MacroProcessorFailed      Code = 2005
	MacroUnknownProcessor     Code = 2006
	MacroValidation           Code = 2007

	// Анализ чтений и записей
	TrackInfo             Code = 3000
	TrackWrittenNeverRead Code = 3001
	TrackReadNeverWritten Code = 3002

	// Ввод-вывод
	IOInfo        Code = 4000
	IOWriteFailed Code = 4001

	// Проект
	ProjInfo            Code = 5000
	ProjManifestInvalid Code = 5001
	ProjNoSources       Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	ModelInfo:                 "Model information",
	ModelInvalidFile:          "Invalid declaration file",
	ModelReadFailed:           "Cannot read declaration file",
	MacroInfo:                 "Macro information",
	MacroFrozenModel:          "Mutation of a frozen declaration model",
	MacroInvalidArgument:      "Invalid argument passed to a declaration",
	MacroInvalidTypeReference: "Unresolvable type reference",
	MacroCapabilityMismatch:   "Declaration does not support mutation",
	MacroProcessorFailed:      "Annotation processor failed",
	MacroUnknownProcessor:     "Unknown annotation processor",
	MacroValidation:           "Declaration rejected by validation",
	TrackInfo:                 "Tracking information",
	TrackWrittenNeverRead:     "Field is written but never read",
	TrackReadNeverWritten:     "Field is read but never written",
	IOInfo:                    "I/O information",
	IOWriteFailed:             "Cannot write output",
	ProjInfo:                  "Project information",
	ProjManifestInvalid:       "Invalid project manifest",
	ProjNoSources:             "No declaration files found",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MOD%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("MAC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TRK%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
