package cmd

import (
	"context"

	"go.projectassign.dev/assigner/assign"
	"go.projectassign.dev/assigner/report"
)

type CheckCmd struct {
	InputFlags `embed:""`
}

func (cmd *CheckCmd) Run(ctx context.Context) error {
	ctx, log := cmd.logger(ctx)

	in, err := cmd.load(ctx)
	if err != nil {
		return err
	}

	unknown := assign.FindUnknownReferences(in.students, in.caps)
	log.DebugContext(ctx, "inputs loaded",
		"projects", in.caps.Len(),
		"students", len(in.students),
		"unknownReferences", len(unknown))

	return report.WriteCheck(stdout, report.Check{
		Projects:      in.caps.Len(),
		TotalCapacity: in.caps.Total(),
		Students:      len(in.students),
		Duplicates:    in.duplicates,
		Unknown:       unknown,
	})
}
