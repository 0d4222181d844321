package main

import (
	"go.projectassign.dev/assigner/assign/cmd"
	basecmd "go.projectassign.dev/assigner/cmd"
)

func main() {
	basecmd.Run(&cmd.Cmd{}, "project-assign", "Assign students to projects by ranked preference", "project-assign.yaml")
}
