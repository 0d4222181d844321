package rootcmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// Run parses the command line into cmd and runs the selected command with
// a context that is cancelled on SIGINT or SIGTERM. Flags not given on the
// command line are resolved from the YAML files in configFiles and from
// the --config flag when cmd has one.
func Run(cmd any, name, description string, configFiles ...string) {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	parser, err := New(ctx, cmd, name, description, configFiles...)
	if err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	err = kctx.Run()
	parser.FatalIfErrorf(err)
}

// New builds the kong parser used by Run.
func New(ctx context.Context, cmd any, name, description string, configFiles ...string) (*kong.Kong, error) {
	return kong.New(cmd,
		kong.Name(name),
		kong.Description(description),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Configuration(YAML, configFiles...),
		kong.ConfigureHelp(kong.HelpOptions{
			Tree: true,
		}),
		kong.UsageOnError(),
	)
}
