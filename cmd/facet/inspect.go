package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"facet/internal/diag"
	"facet/internal/diagfmt"
	"facet/internal/driver"
	"facet/internal/macro"
	"facet/internal/model"
	"facet/internal/processor"
	"facet/internal/source"
	"facet/internal/trace"
	"facet/internal/typeref"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <file.decl.yaml>",
	Short: "Print the declarations of one model file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Bool("library", false, "include library types")
	inspectCmd.Flags().Bool("process", false, "run the built-in processors before printing")
}

func runInspect(cmd *cobra.Command, args []string) error {
	withLibrary, err := cmd.Flags().GetBool("library")
	if err != nil {
		return fmt.Errorf("failed to get library flag: %w", err)
	}
	process, err := cmd.Flags().GetBool("process")
	if err != nil {
		return fmt.Errorf("failed to get process flag: %w", err)
	}
	color, err := useColor(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fs := source.NewFileSet()
	file := fs.Add(path)
	out := cmd.OutOrStdout()

	m, err := model.Load(file, data)
	if err != nil {
		bag := diag.NewBag(100)
		driver.ReportLoadError(diag.BagReporter{Bag: bag}, file, err)
		if _, perr := diagfmt.Pretty(out, bag.Items(), fs, diagfmt.Options{Color: color}); perr != nil {
			return perr
		}
		return errCompileFailed
	}
	u, err := macro.NewCompilationUnit(m, macro.WithPath(path), macro.WithTracer(trace.FromContext(cmd.Context())))
	if err != nil {
		return err
	}
	defer u.Dispose()

	if process {
		bag := diag.NewBag(100)
		if _, err := processor.Builtins().Run(cmd.Context(), u, diag.BagReporter{Bag: bag}); err != nil {
			if _, perr := diagfmt.Pretty(out, bag.Items(), fs, diagfmt.Options{Color: color, Notes: true}); perr != nil {
				return perr
			}
			return err
		}
	}
	if err := u.Freeze(); err != nil {
		return err
	}

	decls := u.SourceTypes()
	if withLibrary {
		decls = u.TypeDeclarations()
	}
	return printDeclarations(out, u, decls)
}

func printDeclarations(w io.Writer, u *macro.CompilationUnit, decls []macro.TypeDeclaration) error {
	tbl := newTable("KIND", "NAME", "TYPE", "MODIFIERS", "ACCESS")
	for _, t := range decls {
		tbl.add(t.TypeKind().String(), t.QualifiedName(), refString(t.Superclass()), typeModifiers(t), "")
		for _, tp := range t.TypeParameters() {
			tbl.add("  type-param", tp.SimpleName(), refList(tp.UpperBounds()), "", "")
		}
		for _, f := range t.Fields() {
			tbl.add("  field", f.SimpleName(), refString(f.Type()), fieldModifiers(f), access(u, f))
		}
		for _, m := range t.Methods() {
			params := make([]string, 0, len(m.Parameters()))
			for _, p := range m.Parameters() {
				params = append(params, refString(p.Type())+" "+p.SimpleName())
			}
			name := m.SimpleName() + "(" + strings.Join(params, ", ") + ")"
			tbl.add("  method", name, refString(m.ReturnType()), methodModifiers(m), access(u, m))
		}
	}
	return tbl.render(w)
}

func refString(r *typeref.Reference) string {
	if r == nil || r.IsEmpty() {
		return "-"
	}
	return r.String()
}

func refList(rs []*typeref.Reference) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, refString(r))
	}
	return strings.Join(parts, " & ")
}

func access(u *macro.CompilationUnit, d macro.Declaration) string {
	a := u.AccessOf(d)
	switch {
	case a.Read && a.Written:
		return "rw"
	case a.Read:
		return "r"
	case a.Written:
		return "w"
	}
	return ""
}

type flag struct {
	name string
	set  bool
}

func modifiers(v fmt.Stringer, flags ...flag) string {
	parts := []string{v.String()}
	for _, f := range flags {
		if f.set {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, " ")
}

func typeModifiers(t macro.TypeDeclaration) string {
	return modifiers(t.Visibility(),
		flag{"abstract", t.IsAbstract() && t.TypeKind() == model.TypeClass},
		flag{"final", t.IsFinal()},
		flag{"static", t.IsStatic()},
		flag{"strictfp", t.IsStrictFloatingPoint()})
}

func fieldModifiers(f macro.FieldDeclaration) string {
	return modifiers(f.Visibility(),
		flag{"static", f.IsStatic()},
		flag{"final", f.IsFinal()},
		flag{"transient", f.IsTransient()},
		flag{"volatile", f.IsVolatile()})
}

func methodModifiers(m macro.MethodDeclaration) string {
	return modifiers(m.Visibility(),
		flag{"static", m.IsStatic()},
		flag{"final", m.IsFinal()},
		flag{"abstract", m.IsAbstract()},
		flag{"native", m.IsNative()},
		flag{"synchronized", m.IsSynchronized()},
		flag{"default", m.IsDefault()},
		flag{"strictfp", m.IsStrictFloatingPoint()},
		flag{"varargs", m.IsVarArgs()})
}
