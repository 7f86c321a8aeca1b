package bloaty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/PX4/bloaty-action/internal/runner"
)

const DefaultCommand = "bloaty"

var ErrInvalidUTF8 = errors.New("could not decode bloaty output")

type Bloaty struct {
	exec    runner.Executor
	out     io.Writer
	logger  *slog.Logger
	command string
}

type Option func(*Bloaty)

// WithCommand replaces the bloaty executable name.
func WithCommand(command string) Option {
	return func(b *Bloaty) { b.command = command }
}

func New(exec runner.Executor, out io.Writer, logger *slog.Logger, opts ...Option) *Bloaty {
	b := &Bloaty{
		exec:    exec,
		out:     out,
		logger:  logger,
		command: DefaultCommand,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Output runs bloaty with args, echoes its text to out and returns both the
// raw result and the decoded text.
func (b *Bloaty) Output(ctx context.Context, args []string) (*runner.Result, string, error) {
	res, err := b.exec.Run(ctx, b.command, args)
	if err != nil {
		return res, "", err
	}

	if !utf8.Valid(res.Output) {
		return res, "", fmt.Errorf("%w as UTF-8: %q", ErrInvalidUTF8, res.Output)
	}

	text := string(res.Output)
	fmt.Fprintln(b.out, text)
	return res, text, nil
}

// Summarize runs bloaty again in CSV mode over fileArgs and sums the report.
func (b *Bloaty) Summarize(ctx context.Context, fileArgs []string) (SizeSummary, error) {
	args := append([]string{"--csv"}, fileArgs...)
	_, text, err := b.Output(ctx, args)
	if err != nil {
		return SizeSummary{}, err
	}

	summary, err := Aggregate(text)
	if err != nil {
		return SizeSummary{}, err
	}

	b.logger.Debug("bloaty csv summarized",
		"file_absolute", summary.FileAbsolute, "file_percentage", summary.FilePercentageString(),
		"vm_absolute", summary.VmAbsolute, "vm_percentage", summary.VmPercentageString())
	return summary, nil
}

// SplitArgs splits an action input on single spaces. Empty tokens produced by
// repeated or surrounding spaces are dropped, so an empty input yields no
// arguments at all. A lone file argument with no additional args therefore
// reaches the runner as a single argument and is run through the shell.
func SplitArgs(s string) []string {
	var args []string
	for _, tok := range strings.Split(s, " ") {
		if tok != "" {
			args = append(args, tok)
		}
	}
	return args
}
