package cmd

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"
	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/metricsserver"
	"go.ntppool.org/common/version"
	"golang.org/x/sync/errgroup"

	"go.projectassign.dev/assigner/assign"
)

type WatchCmd struct {
	InputFlags  `embed:""`
	EngineFlags `embed:""`
	OutputFlags `embed:""`

	MetricsPort int           `default:"9000" env:"ASSIGN_METRICS_PORT" help:"Port for the Prometheus metrics endpoint"`
	Debounce    time.Duration `default:"100ms" help:"Wait this long after the last change before re-running"`
	RetryFor    time.Duration `default:"30s" help:"Keep retrying unreadable inputs this long before giving up on a change"`
}

func (cmd *WatchCmd) Run(ctx context.Context) error {
	ctx, log := cmd.logger(ctx)

	shutdown, err := cmd.initTracing(ctx)
	if err != nil {
		return err
	}
	defer shutdown(context.WithoutCancel(ctx))

	metricssrv := metricsserver.New()
	version.RegisterMetric("assign", metricssrv.Registry())
	metrics := assign.NewMetrics(metricssrv.Registry())

	watcher, err := cmd.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	log.InfoContext(ctx, "watching input files",
		"version", version.Version(),
		"students", cmd.Students,
		"projects", cmd.Projects,
		"metricsPort", cmd.MetricsPort)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := metricssrv.ListenAndServe(ctx, cmd.MetricsPort)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return cmd.watch(ctx, watcher, metrics)
	})

	return g.Wait()
}

// newWatcher watches the directories holding the inputs. Editors and
// atomic writers replace files, which a watch on the file itself would miss.
func (cmd *WatchCmd) newWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := map[string]bool{}
	for _, p := range cmd.inputPaths() {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return watcher, nil
}

func (cmd *WatchCmd) inputPaths() []string {
	paths := []string{cmd.Students, cmd.Projects}
	for i, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			paths[i] = abs
		}
	}
	return paths
}

// watch runs once at startup and again after each debounced change to an
// input file, until ctx is cancelled.
func (cmd *WatchCmd) watch(ctx context.Context, watcher *fsnotify.Watcher, metrics *assign.Metrics) error {
	log := logger.FromContext(ctx)

	watched := map[string]bool{}
	for _, p := range cmd.inputPaths() {
		watched[p] = true
	}

	cmd.reload(ctx, metrics)

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("file watcher closed")
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !watched[name] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.DebugContext(ctx, "input changed", "file", name, "op", event.Op.String())

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(cmd.Debounce)
			fire = debounce.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("file watcher closed")
			}
			log.WarnContext(ctx, "file watcher error", "err", err)

		case <-fire:
			debounce, fire = nil, nil
			cmd.reload(ctx, metrics)
		}
	}
}

// reload loads the inputs, retrying while they are unreadable or half
// written, and replaces the outputs. On failure the previous outputs stay.
func (cmd *WatchCmd) reload(ctx context.Context, metrics *assign.Metrics) bool {
	log := logger.FromContext(ctx)

	expback := backoff.NewExponentialBackOff()
	expback.InitialInterval = 500 * time.Millisecond
	expback.MaxInterval = 5 * time.Second

	in, err := backoff.Retry(ctx,
		func() (*inputs, error) {
			in, err := cmd.load(ctx)
			if err != nil {
				if errors.Is(err, fs.ErrPermission) {
					return nil, backoff.Permanent(err)
				}
				log.DebugContext(ctx, "could not load inputs, will retry", "err", err)
				return nil, err
			}
			return in, nil
		},
		backoff.WithBackOff(expback),
		backoff.WithMaxElapsedTime(cmd.RetryFor),
	)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		log.WarnContext(ctx, "could not load inputs, keeping previous results", "err", err)
		if metrics != nil {
			metrics.TrackReloadFailure()
		}
		return false
	}

	r := execute(ctx, log, in, cmd.EngineFlags, metrics)
	if err := cmd.write(ctx, r.res); err != nil {
		log.ErrorContext(ctx, "could not write results", "runID", r.id, "err", err)
		if metrics != nil {
			metrics.TrackReloadFailure()
		}
		return false
	}

	stats := r.res.Stats()
	log.InfoContext(ctx, "results updated",
		"runID", r.id,
		"assigned", stats.Assigned(),
		"eliminated", stats.Eliminated)
	return true
}
