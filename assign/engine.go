package assign

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Chooser returns an index in [0,n). It is only called with n > 0.
type Chooser func(n int) int

// RandomChooser uses the process-wide math/rand/v2 source.
func RandomChooser() Chooser {
	return rand.IntN
}

// SeededChooser returns a reproducible Chooser.
func SeededChooser(seed uint64) Chooser {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.IntN
}

// Option configures an Engine.
type Option func(*Engine)

// WithChooser sets the random source used for backup placement.
func WithChooser(c Chooser) Option {
	return func(e *Engine) {
		if c != nil {
			e.choose = c
		}
	}
}

// WithMetrics enables prometheus tracking for each run.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// Engine runs the assignment algorithm.
type Engine struct {
	log     *slog.Logger
	metrics *Metrics
	choose  Chooser
	tracer  trace.Tracer
}

// NewEngine creates an engine. Without WithChooser backups are unseeded.
func NewEngine(log *slog.Logger, opts ...Option) *Engine {
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		log:    log,
		choose: RandomChooser(),
		tracer: otel.Tracer("go.projectassign.dev/assigner/assign"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assign places every student, in order, into a project or the eliminated
// set. The capacities are not modified.
func (e *Engine) Assign(ctx context.Context, students []Student, caps Capacities) *Result {
	start := time.Now()

	_, span := e.tracer.Start(ctx, "assign.Assign", trace.WithAttributes(
		attribute.Int("students", len(students)),
	))
	defer span.End()

	res := newResult(caps, len(students))

	for _, s := range students {
		out := e.place(ctx, s, res)
		res.outcomes = append(res.outcomes, out)
	}

	stats := res.Stats()
	span.SetAttributes(
		attribute.Int("assigned", stats.Assigned()),
		attribute.Int("backup", stats.Backup),
		attribute.Int("eliminated", stats.Eliminated),
	)

	if e.metrics != nil {
		e.metrics.TrackRun(res, time.Since(start))
	}

	e.log.InfoContext(ctx, "assignment complete",
		"students", stats.Students,
		"primary", stats.Primary,
		"backup", stats.Backup,
		"eliminated", stats.Eliminated,
		"projects", len(res.order))

	return res
}

// place moves one student from Unprocessed to a terminal state.
func (e *Engine) place(ctx context.Context, s Student, res *Result) Outcome {
	for i, choice := range s.Choices {
		if choice == s.Rejected {
			continue
		}
		if res.remaining(choice) <= 0 {
			continue
		}
		res.add(choice, s.ID)
		e.log.DebugContext(ctx, "assigned to ranked choice",
			"studentID", s.ID,
			"project", choice,
			"rank", i+1)
		return Outcome{StudentID: s.ID, State: AssignedPrimary, Project: choice, Rank: i + 1}
	}

	candidates := res.backupCandidates(s.Rejected)
	if len(candidates) == 0 {
		res.eliminated = append(res.eliminated, s.ID)
		e.log.DebugContext(ctx, "no eligible project, eliminated",
			"studentID", s.ID,
			"rejected", s.Rejected)
		return Outcome{StudentID: s.ID, State: Eliminated}
	}

	idx := e.choose(len(candidates))
	if idx < 0 || idx >= len(candidates) {
		// out of range results from a stub wrap around
		idx = ((idx % len(candidates)) + len(candidates)) % len(candidates)
	}
	project := candidates[idx]
	res.add(project, s.ID)
	e.log.DebugContext(ctx, "assigned to backup project",
		"studentID", s.ID,
		"project", project,
		"candidates", len(candidates))
	return Outcome{StudentID: s.ID, State: AssignedBackup, Project: project}
}
