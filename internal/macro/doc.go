// Package macro exposes a compilation unit's declaration model to annotation
// processors.
//
// Every declaration is reachable through a read-only view. Declarations that
// come from the compiled file are additionally mutable; library declarations
// are not. Mutations go through the unit's Gate, which rejects them once the
// unit has been frozen for code generation. Semantic accesses (a method being
// referenced, a field being read or assigned) are recorded in the unit's
// ReadAndWriteTracking table.
//
// A CompilationUnit and its views are not safe for concurrent use. Different
// units may be processed in parallel.
package macro
