package diagfmt

import (
	"fmt"
	"io"
	"path"

	"github.com/fatih/color"

	"facet/internal/diag"
	"facet/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидается, что diags уже отсортированы. Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <sev> <CODE>: <Message>
//
// и затем её заметки с отступом. Возвращает число напечатанных диагностик.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts Options) (int, error) {
	limit := opts.limit(len(diags))
	p := newPalette(opts.Color)
	for i := range limit {
		d := &diags[i]
		_, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.location.Sprint(location(d.Primary, fs, opts.Basename)),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		if err != nil {
			return i, err
		}
		if !opts.Notes {
			continue
		}
		for _, n := range d.Notes {
			_, err := fmt.Fprintf(w, "  %s %s: %s\n",
				p.note.Sprint("note"), p.location.Sprint(location(n.Pos, fs, opts.Basename)), n.Msg)
			if err != nil {
				return i, err
			}
		}
	}
	if limit < len(diags) {
		if _, err := fmt.Fprintf(w, "... and %d more\n", len(diags)-limit); err != nil {
			return limit, err
		}
	}
	return limit, nil
}

type palette struct {
	errs, warn, info *color.Color
	location, code   *color.Color
	note             *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		errs:     color.New(color.FgRed, color.Bold),
		warn:     color.New(color.FgYellow, color.Bold),
		info:     color.New(color.FgCyan),
		location: color.New(color.Bold),
		code:     color.New(color.FgHiBlack),
		note:     color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.errs, p.warn, p.info, p.location, p.code, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.errs
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

func fileName(id source.FileID, fs *source.FileSet, basename bool) string {
	name := "?"
	if fs != nil {
		if p, ok := fs.Path(id); ok && p != "" {
			name = p
		}
	}
	if basename {
		name = path.Base(name)
	}
	return name
}

func location(pos source.Pos, fs *source.FileSet, basename bool) string {
	name := fileName(pos.File, fs, basename)
	if pos.Line == 0 {
		return name
	}
	return fmt.Sprintf("%s:%d:%d", name, pos.Line, pos.Col)
}
