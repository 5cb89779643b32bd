package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"facet/internal/diag"
	"facet/internal/source"
)

func sample() ([]diag.Diagnostic, *source.FileSet) {
	fs := source.NewFileSet()
	file := fs.Add("src/demo/widget.decl.yaml")
	diags := []diag.Diagnostic{
		{
			Severity: diag.SevError,
			Code:     diag.MacroValidation,
			Message:  "abstract method demo.Widget.run in final type demo.Widget",
			Primary:  source.Pos{File: file, Line: 7, Col: 9},
			Notes:    []diag.Note{{Pos: source.Pos{File: file, Line: 3, Col: 5}, Msg: "validated type declared here"}},
		},
		{
			Severity: diag.SevWarning,
			Code:     diag.TrackWrittenNeverRead,
			Message:  "field demo.Widget.count is written by generated code but never read",
			Primary:  source.Pos{File: file, Line: 9, Col: 9},
		},
	}
	return diags, fs
}

func TestPrettyPlain(t *testing.T) {
	diags, fs := sample()
	var buf bytes.Buffer
	n, err := Pretty(&buf, diags, fs, Options{Notes: true})
	if err != nil || n != 2 {
		t.Fatalf("Pretty = %d, %v", n, err)
	}
	want := "src/demo/widget.decl.yaml:7:9: error MAC2007: abstract method demo.Widget.run in final type demo.Widget\n" +
		"  note src/demo/widget.decl.yaml:3:5: validated type declared here\n" +
		"src/demo/widget.decl.yaml:9:9: warning TRK3001: field demo.Widget.count is written by generated code but never read\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyLimitAndBasename(t *testing.T) {
	diags, fs := sample()
	var buf bytes.Buffer
	n, err := Pretty(&buf, diags, fs, Options{Max: 1, Basename: true})
	if err != nil || n != 1 {
		t.Fatalf("Pretty = %d, %v", n, err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "widget.decl.yaml:7:9: error") || !strings.HasSuffix(out, "... and 1 more\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "note") {
		t.Fatalf("notes must be hidden:\n%s", out)
	}
}

func TestPrettyColor(t *testing.T) {
	diags, fs := sample()
	var buf bytes.Buffer
	if _, err := Pretty(&buf, diags, fs, Options{Color: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	diags, fs := sample()
	var buf bytes.Buffer
	if err := JSON(&buf, diags, fs, Options{Notes: true, Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out Report
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Total != 2 || len(out.Diagnostics) != 1 || !out.Truncated {
		t.Fatalf("total = %d, items = %d, truncated = %v", out.Total, len(out.Diagnostics), out.Truncated)
	}
	if out.Errors != 1 || out.Warnings != 1 {
		t.Fatalf("errors = %d, warnings = %d", out.Errors, out.Warnings)
	}
	d := out.Diagnostics[0]
	if d.Code != "MAC2007" || d.Severity != "error" || d.Location.File != "src/demo/widget.decl.yaml" || d.Location.Line != 7 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.Line != 3 {
		t.Fatalf("unexpected notes %+v", d.Notes)
	}
}

func TestJSONWithoutNotes(t *testing.T) {
	diags, fs := sample()
	r := BuildReport(diags, fs, Options{Basename: true})
	if r.Truncated || len(r.Diagnostics) != 2 {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Diagnostics[0].Notes != nil || r.Diagnostics[1].Location.File != "widget.decl.yaml" {
		t.Fatalf("unexpected entries %+v", r.Diagnostics)
	}
}
