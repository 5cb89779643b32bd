// Package diag defines the diagnostic model shared by the load, macro and
// tracking phases.
//
// Diagnostic is the central record: Severity, a stable Code (see codes.go),
// a short Message, the Primary position inside a declaration file and
// optional Notes. Producers emit through a Reporter (usually via
// ReportBuilder), BagReporter collects into a Bag, which supports sorting and
// deduplication. Rendering lives in format.go for plain output and in the CLI
// for colored output.
package diag
