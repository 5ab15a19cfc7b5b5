// Package driver runs derivation over declaration files: it loads them,
// derives every record in parallel, optionally verifies the fragments in
// the reference downstream, and collects diagnostics.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recforge/internal/derive"
	"recforge/internal/diag"
	"recforge/internal/interp"
	"recforge/internal/observ"
	"recforge/internal/record"
	"recforge/internal/schema"
)

// ErrNoInputs is returned when a run is given no declaration files.
var ErrNoInputs = errors.New("no record declarations given")

// Options configures a run.
type Options struct {
	Jobs           int
	Verify         bool
	MaxDiagnostics int
	Logger         *zap.Logger
	Sink           ProgressSink
	Timer          *observ.Timer
}

func (o Options) withDefaults() Options {
	if o.Jobs <= 0 {
		o.Jobs = runtime.GOMAXPROCS(0)
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = 100
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Sink == nil {
		o.Sink = nopSink{}
	}
	if o.Timer == nil {
		o.Timer = observ.NewTimer()
	}
	return o
}

// Input is one record to derive together with the file declaring it.
type Input struct {
	File   string
	Record *record.Record
}

// RecordResult is the outcome for one record. Exactly one of Result and
// Err is set.
type RecordResult struct {
	File   string
	Record *record.Record
	Result *derive.Result
	Err    error
	// Verified is set when every fragment compiled in the reference
	// downstream.
	Verified bool
}

// Report is the outcome of a run.
type Report struct {
	RunID   string
	Sources []*schema.Source
	Records []RecordResult
	Bag     *diag.Bag
	// Err combines every per-record and per-file failure.
	Err error

	reporter diag.Reporter
}

func newReport(max int) *Report {
	bag := diag.NewBag(max)
	return &Report{
		RunID:    uuid.NewString(),
		Bag:      bag,
		reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
	}
}

// Failed reports whether anything went wrong.
func (r *Report) Failed() bool {
	return r.Err != nil || r.Bag.HasErrors()
}

// Run loads paths and derives every declared record. Per-file and
// per-record failures are collected in the report; the returned error is
// only set when the run itself could not proceed.
func Run(ctx context.Context, paths []string, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	rep, err := loadReport(ctx, paths, opts)
	if err != nil || len(paths) == 0 {
		return rep, err
	}

	var inputs []Input
	for _, src := range rep.Sources {
		for _, rec := range src.Records {
			inputs = append(inputs, Input{File: src.Path, Record: rec})
		}
	}
	log := opts.Logger.With(zap.String("run", rep.RunID))
	if err := deriveInto(ctx, inputs, opts, rep, log); err != nil {
		return rep, err
	}
	rep.Bag.Sort()
	return rep, nil
}

// Load reads and validates the declaration files without deriving
// anything.
func Load(ctx context.Context, paths []string, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	rep, err := loadReport(ctx, paths, opts)
	rep.Bag.Sort()
	return rep, err
}

func loadReport(ctx context.Context, paths []string, opts Options) (*Report, error) {
	rep := newReport(opts.MaxDiagnostics)
	if len(paths) == 0 {
		diag.ReportError(rep.reporter, diag.IOEmptyInputList, diag.Origin{}, ErrNoInputs.Error()).
			WithNote("pass declaration files or list them under [inputs].records in recforge.toml").
			Emit()
		rep.Err = ErrNoInputs
		return rep, nil
	}

	log := opts.Logger.With(zap.String("run", rep.RunID))
	end := opts.Timer.Track(observ.PhaseLoad)
	sources, err := load(ctx, paths, opts, rep, log)
	end(fmt.Sprintf("%d files", len(paths)))
	rep.Sources = sources
	return rep, err
}

// Derive runs derivation over already loaded records.
func Derive(ctx context.Context, inputs []Input, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	rep := newReport(opts.MaxDiagnostics)
	if err := deriveInto(ctx, inputs, opts, rep, opts.Logger.With(zap.String("run", rep.RunID))); err != nil {
		return rep, err
	}
	rep.Bag.Sort()
	return rep, nil
}

func load(ctx context.Context, paths []string, opts Options, rep *Report, log *zap.Logger) ([]*schema.Source, error) {
	sources := make([]*schema.Source, len(paths))
	errs := make([]error, len(paths))
	for _, p := range paths {
		opts.Sink.OnEvent(Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := time.Now()
			opts.Sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusWorking})
			src, err := schema.Load(path)
			if err != nil {
				// Results are indexed per goroutine; a broken file does
				// not stop the others.
				errs[i] = err
				opts.Sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return nil
			}
			sources[i] = src
			opts.Sink.OnEvent(Event{File: path, Stage: StageLoad, Status: StatusDone, Records: len(src.Records), Elapsed: time.Since(start)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*schema.Source, 0, len(paths))
	for i, path := range paths {
		if err := errs[i]; err != nil {
			log.Warn("failed to load declarations", zap.String("file", path), zap.Error(err))
			rep.Err = multierr.Append(rep.Err, err)
			var le *schema.LoadError
			if errors.As(err, &le) {
				rep.reporter.Report(le.Diagnostic())
			} else {
				rep.reporter.Report(diag.NewError(diag.IOLoadFileError, diag.Origin{File: path}, err.Error()))
			}
			continue
		}
		src := sources[i]
		for _, de := range src.Invalid {
			log.Warn("invalid record declaration", zap.String("file", path), zap.String("record", de.Record), zap.Error(de))
			rep.Err = multierr.Append(rep.Err, fmt.Errorf("%s: %w", path, de))
			rep.reporter.Report(declDiagnostic(path, de))
		}
		log.Debug("loaded declarations", zap.String("file", path), zap.Stringer("format", src.Format), zap.Int("records", len(src.Records)))
		out = append(out, src)
	}
	return out, nil
}

func declDiagnostic(file string, de *record.DeclError) diag.Diagnostic {
	d := diag.NewError(de.Code, diag.Origin{File: file, Record: de.Record}, de.Error())
	if de.Code == diag.DrvFieldOrder {
		d = d.WithNote("give the field a default, or move it before the defaulted fields")
	}
	return d
}

func deriveInto(ctx context.Context, inputs []Input, opts Options, rep *Report, log *zap.Logger) error {
	results := make([]RecordResult, len(inputs))
	if len(inputs) == 0 {
		rep.Records = results
		return nil
	}

	endDerive := opts.Timer.Track(observ.PhaseDerive)
	var verifyDur []time.Duration
	if opts.Verify {
		verifyDur = make([]time.Duration, len(inputs))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.Jobs, len(inputs)))
	for i, in := range inputs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = deriveOne(in, opts, verifyDur, i)
			return nil
		})
	}
	err := g.Wait()
	endDerive(fmt.Sprintf("%d records", len(inputs)))
	if opts.Verify {
		var total time.Duration
		for _, d := range verifyDur {
			total += d
		}
		idx := opts.Timer.Begin(observ.PhaseVerify)
		opts.Timer.Set(idx, total, "compile in reference downstream")
	}
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Err == nil {
			log.Debug("derived record",
				zap.String("file", r.File),
				zap.String("record", r.Record.Name),
				zap.Int("fragments", len(r.Result.Fragments)),
				zap.Strings("user_defined", r.Result.UserDefined),
				zap.Bool("verified", r.Verified))
			continue
		}
		log.Warn("derivation failed", zap.String("file", r.File), zap.String("record", r.Record.Name), zap.Error(r.Err))
		rep.Err = multierr.Append(rep.Err, r.Err)
		rep.reporter.Report(failureDiagnostic(r.File, r.Record.Name, r.Err))
	}
	rep.Records = results
	return nil
}

func deriveOne(in Input, opts Options, verifyDur []time.Duration, i int) RecordResult {
	out := RecordResult{File: in.File, Record: in.Record}
	ev := Event{File: in.File, Record: in.Record.Name, Stage: StageDerive}
	start := time.Now()

	ev.Status = StatusWorking
	opts.Sink.OnEvent(ev)
	res, err := derive.Record(in.Record)
	if err != nil {
		out.Err = err
		ev.Status, ev.Err, ev.Elapsed = StatusError, err, time.Since(start)
		opts.Sink.OnEvent(ev)
		return out
	}
	out.Result = res

	if opts.Verify {
		ev.Stage = StageVerify
		opts.Sink.OnEvent(ev)
		vstart := time.Now()
		err := interp.Install(interp.NewClass(in.Record), res.Fragments)
		verifyDur[i] = time.Since(vstart)
		if err != nil {
			out.Result, out.Err = nil, &verifyError{err: err}
			ev.Status, ev.Err, ev.Elapsed = StatusError, out.Err, time.Since(start)
			opts.Sink.OnEvent(ev)
			return out
		}
		out.Verified = true
	}

	ev.Status, ev.Elapsed = StatusDone, time.Since(start)
	opts.Sink.OnEvent(ev)
	return out
}

// verifyError marks a fragment rejected by the reference downstream.
type verifyError struct {
	err error
}

func (e *verifyError) Error() string { return "verification failed: " + e.err.Error() }
func (e *verifyError) Unwrap() error { return e.err }

func failureDiagnostic(file, rec string, err error) diag.Diagnostic {
	var se *derive.SynthesisError
	if !errors.As(err, &se) {
		return diag.NewError(diag.DrvInternalBug, diag.Origin{File: file, Record: rec}, err.Error())
	}
	d := se.Diagnostic(file)
	var ve *verifyError
	if errors.As(err, &ve) {
		d.Code = diag.DrvVerifyFailed
		d = d.WithNote("the reference downstream could not compile the synthesized method")
	}
	return d
}
