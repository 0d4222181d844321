package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.ntppool.org/common/version"

	"go.projectassign.dev/assigner/tracing"
)

// Cmd is the project-assign command tree.
type Cmd struct {
	Config kong.ConfigFlag `help:"YAML configuration file" placeholder:"FILE"`

	Run      RunCmd      `cmd:"run" help:"assign students and write the result files"`
	Simulate SimulateCmd `cmd:"simulate" help:"assign students and print the summary without writing files"`
	Check    CheckCmd    `cmd:"check" help:"validate the input files without assigning"`
	Watch    WatchCmd    `cmd:"watch" help:"re-run the assignment whenever the input files change"`
	Version  VersionCmd  `cmd:"version" help:"print version and build information"`
}

type (
	// InputFlags locate the two input files.
	InputFlags struct {
		Students string `default:"students.csv" env:"ASSIGN_STUDENTS" type:"path" help:"Student preferences CSV (Student_ID, Choice_1-3, Choice_4 = rejected project)"`
		Projects string `default:"project_capacities.csv" env:"ASSIGN_PROJECTS" type:"path" help:"Project capacities CSV (Project_ID, Max_Participants)"`
		Verbose  bool   `short:"v" help:"Enable verbose debug logging"`
	}

	// EngineFlags configure the assignment engine.
	EngineFlags struct {
		Seed      *uint64 `env:"ASSIGN_SEED" help:"Seed for backup placement; random when not set"`
		TraceFile string  `env:"ASSIGN_TRACE_FILE" help:"Write OpenTelemetry spans to this file ('-' for stdout)"`
	}

	// OutputFlags locate the result files.
	OutputFlags struct {
		Assignments string `default:"assignments.csv" env:"ASSIGN_ASSIGNMENTS_OUT" type:"path" help:"Assignments output CSV"`
		Eliminated  string `default:"eliminated.csv" env:"ASSIGN_ELIMINATED_OUT" type:"path" help:"Eliminated students output CSV"`
	}
)

type VersionCmd struct{}

func (VersionCmd) Run() error {
	_, err := fmt.Fprintf(stdout, "project-assign %s\n", version.Version())
	return err
}

// stdout receives summaries and reports.
var stdout io.Writer = os.Stdout

var tracer = tracing.Tracer("go.projectassign.dev/assigner/assign/cmd")
