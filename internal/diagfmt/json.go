package diagfmt

import (
	"encoding/json"
	"io"

	"facet/internal/diag"
	"facet/internal/source"
)

// Location is a file position; Line and Col are omitted for whole-file findings.
type Location struct {
	File string `json:"file"`
	Line uint32 `json:"line,omitempty"`
	Col  uint32 `json:"col,omitempty"`
}

type NoteEntry struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// Entry is one diagnostic as written by JSON.
type Entry struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code"`
	Title    string      `json:"title"`
	Message  string      `json:"message"`
	Location Location    `json:"location"`
	Notes    []NoteEntry `json:"notes,omitempty"`
}

// Report is the JSON document. Errors, Warnings and Total count every
// diagnostic, including those cut by Options.Max.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Total       int     `json:"total"`
	Errors      int     `json:"errors"`
	Warnings    int     `json:"warnings"`
	Truncated   bool    `json:"truncated,omitempty"`
}

func toLocation(pos source.Pos, fs *source.FileSet, basename bool) Location {
	return Location{File: fileName(pos.File, fs, basename), Line: pos.Line, Col: pos.Col}
}

// BuildReport converts diags without encoding them.
func BuildReport(diags []diag.Diagnostic, fs *source.FileSet, opts Options) Report {
	shown := opts.limit(len(diags))
	r := Report{
		Diagnostics: make([]Entry, 0, shown),
		Total:       len(diags),
		Truncated:   shown < len(diags),
	}
	for i := range diags {
		d := &diags[i]
		switch d.Severity {
		case diag.SevError:
			r.Errors++
		case diag.SevWarning:
			r.Warnings++
		}
		if i >= shown {
			continue
		}
		e := Entry{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: toLocation(d.Primary, fs, opts.Basename),
		}
		if opts.Notes {
			for _, n := range d.Notes {
				e.Notes = append(e.Notes, NoteEntry{Message: n.Msg, Location: toLocation(n.Pos, fs, opts.Basename)})
			}
		}
		r.Diagnostics = append(r.Diagnostics, e)
	}
	return r
}

// JSON writes diags as one indented document.
func JSON(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(diags, fs, opts))
}
