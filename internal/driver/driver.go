// Package driver compiles a set of declaration files: every file becomes one
// compilation unit that is loaded, processed by annotation processors and
// frozen. Units run in parallel and never share declarations.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"facet/internal/diag"
	"facet/internal/fsys"
	"facet/internal/macro"
	"facet/internal/model"
	"facet/internal/observ"
	"facet/internal/processor"
	"facet/internal/project"
	"facet/internal/source"
	"facet/internal/trace"
	"facet/internal/tracking"
)

// Options controls a driver run.
type Options struct {
	// FS is the project filesystem; paths are relative to its root.
	FS billy.Filesystem
	// Sources lists directories (or single files) scanned for declaration files.
	Sources        []string
	Jobs           int
	MaxDiagnostics int
	// Processors applied to every unit; nil means the built-ins.
	Processors *processor.Registry
	// TrackingOut is the directory receiving tracking snapshots; empty disables them.
	TrackingOut string
	// Progress receives per-unit events; nil disables reporting.
	Progress ProgressSink
	// WarningsAsErrors escalates every warning of a unit before its status is decided.
	WarningsAsErrors bool
}

// UnitResult is the outcome of one declaration file.
type UnitResult struct {
	Path   string
	FileID source.FileID
	UnitID uuid.UUID
	Digest project.Digest
	Bag    *diag.Bag
	// Model is the frozen generation model, nil when the unit failed.
	Model       *model.Model
	Invocations int
	Tracking    tracking.Snapshot
	// SnapshotPath is where the tracking snapshot was written, if anywhere.
	SnapshotPath string
	Timing       observ.Report
}

// Failed reports whether the unit produced no generation model or reported an error.
func (r *UnitResult) Failed() bool { return r.Model == nil || r.Bag.HasErrors() }

// Result aggregates a whole run.
type Result struct {
	FileSet *source.FileSet
	// Bag holds diagnostics that belong to no single unit.
	Bag    *diag.Bag
	Units  []UnitResult
	Timing observ.Report
}

// Diagnostics merges the run and unit diagnostics in source order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	total := r.Bag.Len()
	for i := range r.Units {
		total += r.Units[i].Bag.Len()
	}
	merged := diag.NewBag(total)
	merged.Merge(r.Bag)
	for i := range r.Units {
		merged.Merge(r.Units[i].Bag)
	}
	merged.Sort()
	return merged.Items()
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	if r.Bag.HasErrors() {
		return true
	}
	for i := range r.Units {
		if r.Units[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Run compiles every declaration file found in opts.Sources.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.FS == nil {
		return nil, errors.New("driver: filesystem is required")
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = project.Defaults().Build.MaxDiagnostics
	}
	if opts.Processors == nil {
		opts.Processors = processor.Builtins()
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, runSpan := trace.Start(ctx, trace.ScopeDriver, "run")

	timer := observ.NewTimer()
	res := &Result{
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}

	endDiscover := timer.Start("discover")
	files, err := project.DiscoverFiles(opts.FS, opts.Sources, model.DeclFileSuffix)
	endDiscover(fmt.Sprintf("%d files", len(files)))
	if err != nil {
		runSpan.End("failed")
		return nil, err
	}
	if len(files) == 0 {
		diag.ReportWarning(diag.BagReporter{Bag: res.Bag}, diag.ProjNoSources, source.Pos{},
			fmt.Sprintf("no %s files found in %v", model.DeclFileSuffix, opts.Sources)).Emit()
		res.Timing = timer.Report()
		runSpan.End("empty")
		return res, nil
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Status: StatusQueued})
	}
	res.Units = make([]UnitResult, len(files))
	endUnits := timer.Start("units")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		fileID := res.FileSet.Add(path)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			res.Units[i] = compileUnit(gctx, opts, path, fileID)
			return nil
		})
	}
	err = g.Wait()
	endUnits(fmt.Sprintf("%d units, %d jobs", len(files), jobs))
	if err != nil {
		runSpan.End("canceled")
		return res, err
	}

	failed := 0
	for i := range res.Units {
		if res.Units[i].Failed() {
			failed++
		}
	}
	res.Timing = timer.Report()
	runSpan.Set("units", fmt.Sprint(len(files))).End(fmt.Sprintf("%d failed", failed))
	return res, nil
}

func compileUnit(ctx context.Context, opts Options, path string, fileID source.FileID) (res UnitResult) {
	ctx, span := trace.Start(ctx, trace.ScopeUnit, "unit")
	span.Set("path", path)

	timer := observ.NewTimer()
	res = UnitResult{Path: path, FileID: fileID, Bag: diag.NewBag(opts.MaxDiagnostics)}
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	start := time.Now()
	stage := StageLoad
	defer func() {
		if opts.WarningsAsErrors {
			res.Bag.Escalate(diag.SevWarning, diag.SevError)
		}
		res.Timing = timer.Report()
		status, elapsed := StatusDone, time.Since(start)
		if res.Failed() {
			status = StatusError
		}
		emit(opts.Progress, Event{File: path, Stage: stage, Status: status, Elapsed: elapsed})
	}()
	progress := func(s Stage) {
		stage = s
		emit(opts.Progress, Event{File: path, Stage: s, Status: StatusWorking})
	}

	progress(StageLoad)
	data, err := readFile(opts.FS, path)
	if err != nil {
		diag.ReportError(rep, diag.ModelReadFailed, source.Pos{File: fileID}, err.Error()).Emit()
		span.End("read failed")
		return res
	}
	// the same file under a different processor set is a different unit
	res.Digest = project.Combine(project.DigestOf(data), project.DigestOf([]byte(strings.Join(opts.Processors.Names(), ","))))
	m, err := model.Load(fileID, data)
	timer.Record("load", time.Since(start), res.Digest.Short())
	if err != nil {
		ReportLoadError(rep, fileID, err)
		span.End("load failed")
		return res
	}

	u, err := macro.NewCompilationUnit(m,
		macro.WithPath(path),
		macro.WithTracer(trace.FromContext(ctx)),
		macro.WithFileSystem(fsys.BillyEnumerator{FS: opts.FS}),
	)
	if err != nil {
		diag.ReportError(rep, diag.ModelInvalidFile, source.Pos{File: fileID}, err.Error()).Emit()
		span.End("failed")
		return res
	}
	defer u.Dispose()
	res.UnitID = u.ID()

	progress(StageMacro)
	endMacro := timer.Start("macro")
	mctx, macroSpan := trace.Start(ctx, trace.ScopeMacro, "macro")
	n, err := opts.Processors.Run(mctx, u, rep)
	res.Invocations = n
	if err != nil {
		macroSpan.End("failed")
		endMacro("failed")
		reportProcessorError(rep, res.Bag, fileID, err)
		u.Abort(err)
		span.End("aborted")
		return res
	}
	macroSpan.End(fmt.Sprintf("%d invocations", n))
	endMacro(fmt.Sprintf("%d invocations", n))

	progress(StageFreeze)
	if err := u.Freeze(); err != nil {
		diag.ReportError(rep, diag.MacroProcessorFailed, source.Pos{File: fileID}, err.Error()).Emit()
		span.End("freeze failed")
		return res
	}
	gen, err := u.GenerationModel()
	if err != nil {
		diag.ReportError(rep, diag.MacroProcessorFailed, source.Pos{File: fileID}, err.Error()).Emit()
		span.End("failed")
		return res
	}

	progress(StageTracking)
	endTracking := timer.Start("tracking")
	findings := reportFindings(rep, u)
	res.Tracking = u.ReadAndWriteTracking().Snapshot(u.ID().String(), path)
	res.Tracking.Digest = res.Digest.String()
	if opts.TrackingOut != "" {
		out, err := writeSnapshot(opts.FS, opts.TrackingOut, res.Tracking)
		if err != nil {
			diag.ReportError(rep, diag.IOWriteFailed, source.Pos{File: fileID}, err.Error()).Emit()
		}
		res.SnapshotPath = out
	}
	endTracking(fmt.Sprintf("%d findings", findings))

	res.Model = gen
	span.End("ok")
	return res
}

func readFile(fs billy.Filesystem, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
