package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/fatih/color"
)

// Shell interprets the command line when a caller passes a single argument.
const Shell = "/bin/sh"

//go:generate mockgen -source=runner.go -destination=mocks/mock_executor.go -package=mocks Executor

// Executor runs an external command to completion.
type Executor interface {
	Run(ctx context.Context, name string, args []string) (*Result, error)
}

type Result struct {
	Name string
	Args []string
	// Shell is set when the command line was handed to Shell as one string.
	Shell    bool
	ExitCode int
	Output   []byte
}

// CommandLine renders the command as name and arguments joined by single
// spaces, e.g. "bloaty a.elf b.elf". Arguments are not quoted, so the result is
// for display and does not round-trip through a shell.
func (r *Result) CommandLine() string {
	return commandLine(r.Name, r.Args)
}

// ExitError reports a child process that ran but exited with a non-zero code.
type ExitError struct {
	Result *Result
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", e.Result.CommandLine(), e.Result.ExitCode)
}

// ExitCode is the code the whole program should terminate with. A child
// killed by a signal reports -1 and maps to 1.
func (e *ExitError) ExitCode() int {
	if e.Result.ExitCode <= 0 {
		return 1
	}
	return e.Result.ExitCode
}

type Runner struct {
	out    io.Writer
	logger *slog.Logger
}

func New(out io.Writer, logger *slog.Logger) *Runner {
	return &Runner{out: out, logger: logger}
}

// Run executes name with args and returns the merged stdout and stderr.
// A single argument is appended to name and run through Shell, because the
// docker action runtime may deliver every argument as one string.
// A process that cannot be started yields a plain error; a process that exits
// non-zero yields an *ExitError after its output has been dumped to out.
func (r *Runner) Run(ctx context.Context, name string, args []string) (*Result, error) {
	res := &Result{Name: name, Args: args}

	var cmd *exec.Cmd
	if len(args) == 1 {
		res.Shell = true
		cmd = exec.CommandContext(ctx, Shell, "-c", name+" "+args[0])
	} else {
		cmd = exec.CommandContext(ctx, name, args...)
	}

	color.New(color.FgCyan).Fprintf(r.out, "Running: %s\n\n", res.CommandLine())
	r.logger.Debug("starting process", "path", cmd.Path, "argv", cmd.Args, "shell", res.Shell)

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	res.Output = combined.Bytes()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			color.New(color.FgRed).Fprintln(r.out, "Error running the command:")
			fmt.Fprintln(r.out, err.Error())
			return res, fmt.Errorf("failed to run %q: %w", res.CommandLine(), err)
		}
		res.ExitCode = exitErr.ExitCode()
		r.dumpFailure(res)
		return res, &ExitError{Result: res}
	}

	r.logger.Debug("process finished", "command", res.CommandLine(), "bytes", len(res.Output))
	return res, nil
}

func (r *Runner) dumpFailure(res *Result) {
	color.New(color.FgRed).Fprintln(r.out, "Completed process data:")
	fmt.Fprintf(r.out, "command: %s\n", res.CommandLine())
	fmt.Fprintf(r.out, "output:\n%s\n", res.Output)
	color.New(color.FgRed).Fprintf(r.out, "\nProcess exited with error code %d\n", res.ExitCode)
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
