package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/version"

	"go.projectassign.dev/assigner/assign"
	"go.projectassign.dev/assigner/capacity"
	"go.projectassign.dev/assigner/csvio"
	"go.projectassign.dev/assigner/report"
	"go.projectassign.dev/assigner/runid"
	"go.projectassign.dev/assigner/tracing"
)

// inputs is everything loaded before a run.
type inputs struct {
	students   []assign.Student
	duplicates []string
	caps       *capacity.Table
}

// logger returns the context logger, or a debug level one with --verbose.
func (f InputFlags) logger(ctx context.Context) (context.Context, *slog.Logger) {
	log := logger.FromContext(ctx)
	if f.Verbose {
		debugHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		log = slog.New(debugHandler)
		ctx = logger.NewContext(ctx, log)
	}
	return ctx, log
}

// load reads both inputs. Any malformed input fails the whole load.
func (f InputFlags) load(ctx context.Context) (*inputs, error) {
	_, span := tracer.Start(ctx, "load")
	defer span.End()

	caps, err := csvio.LoadCapacities(f.Projects)
	if err != nil {
		return nil, fmt.Errorf("loading project capacities: %w", err)
	}
	students, dups, err := csvio.LoadStudents(f.Students)
	if err != nil {
		return nil, fmt.Errorf("loading student preferences: %w", err)
	}
	return &inputs{students: students, duplicates: dups, caps: caps}, nil
}

func (f EngineFlags) engine(log *slog.Logger, metrics *assign.Metrics) *assign.Engine {
	opts := []assign.Option{assign.WithMetrics(metrics)}
	if f.Seed != nil {
		opts = append(opts, assign.WithChooser(assign.SeededChooser(*f.Seed)))
	}
	return assign.NewEngine(log, opts...)
}

func (f EngineFlags) initTracing(ctx context.Context) (tracing.ShutdownFunc, error) {
	return tracing.Init(ctx, tracing.Config{
		ServiceName: "project-assign",
		File:        f.TraceFile,
	})
}

// write replaces both result files. Either both are replaced or neither.
func (f OutputFlags) write(ctx context.Context, res *assign.Result) error {
	_, span := tracer.Start(ctx, "write")
	defer span.End()

	projects := report.SortProjectIDs(res.Projects())
	err := csvio.WriteFiles(
		csvio.Output{
			Path: f.Assignments,
			Write: func(w io.Writer) error {
				return csvio.WriteAssignments(w, res, projects)
			},
		},
		csvio.Output{
			Path: f.Eliminated,
			Write: func(w io.Writer) error {
				return csvio.WriteEliminated(w, res)
			},
		},
	)
	if err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}

type runResult struct {
	id  string
	in  *inputs
	res *assign.Result
}

// execute runs the engine once over the loaded inputs.
func execute(ctx context.Context, log *slog.Logger, in *inputs, flags EngineFlags, metrics *assign.Metrics) *runResult {
	id := runid.String()
	log = log.With("runID", id)
	ctx = logger.NewContext(ctx, log)

	if len(in.duplicates) > 0 {
		log.WarnContext(ctx, "duplicate student rows, using the last one", "students", in.duplicates)
	}

	res := flags.engine(log, metrics).Assign(ctx, in.students, in.caps)
	return &runResult{id: id, in: in, res: res}
}

func (r *runResult) writeSummary(w io.Writer) error {
	return report.WriteSummary(w, report.Summary{
		RunID:      r.id,
		Version:    version.Version(),
		Result:     r.res,
		Duplicates: r.in.duplicates,
	})
}
