package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/PX4/bloaty-action/internal/action"
	"github.com/PX4/bloaty-action/internal/bloaty"
	"github.com/PX4/bloaty-action/internal/environment"
	"github.com/PX4/bloaty-action/internal/ghoutput"
	"github.com/PX4/bloaty-action/internal/logging"
	"github.com/PX4/bloaty-action/internal/runner"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := run(context.Background(), os.Stdout, os.Args); err != nil {
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context, out io.Writer, args []string) error {
	env, err := environment.ReadEnvConfig()
	if err != nil {
		reportError(out, err)
		return err
	}

	logger := logging.New(out, env.Verbose)
	if env.DotEnvErr != nil {
		logger.Warn("ignoring .env file", "error", env.DotEnvErr)
	}
	err = newCommand(out, env, logger).Run(ctx, args)
	if err != nil {
		var exitErr *runner.ExitError
		if !errors.As(err, &exitErr) {
			// the runner has already dumped the failed process
			reportError(out, err)
		}
	}
	return err
}

func newCommand(out io.Writer, env *environment.EnvConfig, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "bloaty-action",
		Usage:     "run bloaty and publish its report as GitHub Actions outputs",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "action-summary",
				Usage: "append the bloaty report to the workflow step summary",
			},
			&cli.StringFlag{
				Name:     "bloaty-file-args",
				Usage:    "space separated files (and diff base) handed to bloaty",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "bloaty-additional-args",
				Usage: "space separated options placed before the file arguments",
			},
		},
		// exit codes are decided by main, never inside the CLI framework
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			exec := runner.New(out, logger)
			a := action.New(
				bloaty.New(exec, out, logger),
				ghoutput.NewWriter(exec, logger),
				logger,
			)

			return a.Run(ctx, action.Config{
				FileArgs:       bloaty.SplitArgs(cmd.String("bloaty-file-args")),
				AdditionalArgs: bloaty.SplitArgs(cmd.String("bloaty-additional-args")),
				ActionSummary:  cmd.Bool("action-summary"),
				Env:            env,
			})
		},
	}
}

func reportError(out io.Writer, err error) {
	color.New(color.FgRed).Fprint(out, "\nAction:ERROR: ")
	fmt.Fprintln(out, err.Error())
}

// exitCode propagates a failed child's exit code; every other failure is 1.
func exitCode(err error) int {
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
