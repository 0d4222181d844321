package cmd

import (
	"context"

	"go.ntppool.org/common/version"
)

type RunCmd struct {
	InputFlags  `embed:""`
	EngineFlags `embed:""`
	OutputFlags `embed:""`

	Summary bool `default:"true" negatable:"" help:"Print the assignment summary"`
}

func (cmd *RunCmd) Run(ctx context.Context) error {
	ctx, log := cmd.logger(ctx)

	shutdown, err := cmd.initTracing(ctx)
	if err != nil {
		return err
	}
	defer shutdown(context.WithoutCancel(ctx))

	log.InfoContext(ctx, "project-assign starting", "version", version.Version())

	in, err := cmd.load(ctx)
	if err != nil {
		return err
	}

	r := execute(ctx, log, in, cmd.EngineFlags, nil)

	if err := cmd.write(ctx, r.res); err != nil {
		return err
	}
	log.InfoContext(ctx, "wrote results",
		"runID", r.id,
		"assignments", cmd.Assignments,
		"eliminated", cmd.OutputFlags.Eliminated)

	if cmd.Summary {
		return r.writeSummary(stdout)
	}
	return nil
}
