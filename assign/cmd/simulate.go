package cmd

import (
	"context"
	"fmt"
)

type SimulateCmd struct {
	InputFlags  `embed:""`
	EngineFlags `embed:""`
}

func (cmd *SimulateCmd) Run(ctx context.Context) error {
	ctx, log := cmd.logger(ctx)

	shutdown, err := cmd.initTracing(ctx)
	if err != nil {
		return err
	}
	defer shutdown(context.WithoutCancel(ctx))

	log.InfoContext(ctx, "starting assignment simulation",
		"students", cmd.Students,
		"projects", cmd.Projects,
		"verbose", cmd.Verbose)

	in, err := cmd.load(ctx)
	if err != nil {
		return err
	}

	r := execute(ctx, log, in, cmd.EngineFlags, nil)
	if err := r.writeSummary(stdout); err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, "\nSimulation complete: no files were written")
	return err
}
