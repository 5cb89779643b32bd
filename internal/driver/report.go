package driver

import (
	"errors"
	"fmt"

	"facet/internal/diag"
	"facet/internal/macro"
	"facet/internal/model"
	"facet/internal/processor"
	"facet/internal/source"
)

// ReportLoadError reports every issue of a failed model load.
func ReportLoadError(rep diag.Reporter, file source.FileID, err error) {
	var le *model.LoadError
	if !errors.As(err, &le) {
		diag.ReportError(rep, diag.ModelInvalidFile, source.Pos{File: file}, err.Error()).Emit()
		return
	}
	for _, issue := range le.Issues {
		diag.ReportError(rep, diag.ModelInvalidFile, issue.Pos, issue.Message).Emit()
	}
}

// processorErrorCode maps the macro error taxonomy onto diagnostic codes.
func processorErrorCode(err error) diag.Code {
	switch {
	case errors.Is(err, processor.ErrValidation):
		return diag.MacroValidation
	case errors.Is(err, processor.ErrUnknownProcessor):
		return diag.MacroUnknownProcessor
	case errors.Is(err, macro.ErrFrozenModel):
		return diag.MacroFrozenModel
	case errors.Is(err, macro.ErrCapabilityMismatch):
		return diag.MacroCapabilityMismatch
	case errors.Is(err, macro.ErrInvalidTypeReference):
		return diag.MacroInvalidTypeReference
	case errors.Is(err, macro.ErrInvalidArgument):
		return diag.MacroInvalidArgument
	default:
		return diag.MacroProcessorFailed
	}
}

// reportProcessorError turns a failed processor run into a diagnostic at the
// triggering annotation. Validation failures that already reported their own
// errors only get a note.
func reportProcessorError(rep diag.Reporter, bag *diag.Bag, file source.FileID, err error) {
	pos := source.Pos{File: file}
	var inv *processor.InvocationError
	if errors.As(err, &inv) {
		pos = inv.Pos
	}
	code := processorErrorCode(err)
	if code == diag.MacroValidation && bag.HasErrors() {
		diag.ReportInfo(rep, diag.MacroInfo, pos, "unit discarded: "+err.Error()).Emit()
		return
	}
	b := diag.ReportError(rep, code, pos, err.Error())
	var de *macro.DeclarationError
	if errors.As(err, &de) {
		b.WithNote(pos, fmt.Sprintf("while applying %s to %s", de.Op, de.Decl))
	}
	b.Emit()
}

// reportFindings derives warnings from the unit's access table and returns
// how many were reported.
func reportFindings(rep diag.Reporter, u *macro.CompilationUnit) int {
	n := 0
	for _, t := range u.SourceTypes() {
		for _, f := range t.Fields() {
			a := u.AccessOf(f)
			switch {
			case a.Written && !a.Read:
				diag.ReportWarning(rep, diag.TrackWrittenNeverRead, f.Pos(),
					fmt.Sprintf("field %s is written by generated code but never read", f.Name())).Emit()
				n++
			case a.Read && !a.Written && !f.IsFinal() && f.Initializer() == "":
				diag.ReportWarning(rep, diag.TrackReadNeverWritten, f.Pos(),
					fmt.Sprintf("field %s is read by generated code but never written", f.Name())).Emit()
				n++
			}
		}
	}
	return n
}
