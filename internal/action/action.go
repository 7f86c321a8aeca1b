package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/PX4/bloaty-action/internal/bloaty"
	"github.com/PX4/bloaty-action/internal/environment"
	"github.com/PX4/bloaty-action/internal/ghoutput"
	"github.com/PX4/bloaty-action/internal/runner"
)

// Output names published on GITHUB_OUTPUT.
const (
	OutputText       = "bloaty-output"
	OutputEncoded    = "bloaty-output-encoded"
	OutputSummaryMap = "bloaty-summary-map"
)

var ErrOutputTooShort = errors.New("the bloaty output is too short")

type Config struct {
	FileArgs       []string
	AdditionalArgs []string
	// ActionSummary forces the step summary regardless of the environment.
	ActionSummary bool
	Env           *environment.EnvConfig
}

// BloatyArgs is the argument list of the human readable bloaty run.
func (c Config) BloatyArgs() []string {
	args := make([]string, 0, len(c.AdditionalArgs)+len(c.FileArgs))
	args = append(args, c.AdditionalArgs...)
	return append(args, c.FileArgs...)
}

func (c Config) summaryEnabled() bool {
	return c.ActionSummary || (c.Env != nil && c.Env.OutputToSummary)
}

func (c Config) summaryTitle() string {
	if c.Env == nil {
		return environment.DefaultSummaryTitle
	}
	return c.Env.SummaryTitle
}

type Action struct {
	bloaty *bloaty.Bloaty
	output *ghoutput.Writer
	logger *slog.Logger
}

func New(b *bloaty.Bloaty, output *ghoutput.Writer, logger *slog.Logger) *Action {
	return &Action{
		bloaty: b,
		output: output,
		logger: logger,
	}
}

// Run executes the whole action: the bloaty report, its raw and encoded
// outputs, the optional step summary and finally the size summary map.
func (a *Action) Run(ctx context.Context, cfg Config) error {
	a.logger.Debug("bloaty arguments",
		"file_args", cfg.FileArgs, "additional_args", cfg.AdditionalArgs, "action_summary", cfg.ActionSummary)

	res, text, err := a.bloaty.Output(ctx, cfg.BloatyArgs())
	if err != nil {
		return err
	}

	if err := a.writeOutputs(res, text); err != nil {
		return err
	}

	if cfg.summaryEnabled() {
		if err := a.output.WriteStepSummary(cfg.summaryTitle(), res.CommandLine(), text); err != nil {
			return err
		}
	}

	summary, err := a.bloaty.Summarize(ctx, cfg.FileArgs)
	if err != nil {
		return err
	}

	return a.output.WriteMap(ctx, environment.GithubOutput, OutputSummaryMap, SummaryFields(summary))
}

func (a *Action) writeOutputs(res *runner.Result, text string) error {
	a.logger.Debug("adding bloaty output to the action outputs")
	if err := a.output.Write(environment.GithubOutput, OutputText, text); err != nil {
		return err
	}

	if len(res.Output) < 3 {
		return fmt.Errorf("%w: %s", ErrOutputTooShort, ghoutput.EscapeBytes(res.Output))
	}

	return a.output.Write(environment.GithubOutput, OutputEncoded, ghoutput.EscapeBytes(res.Output))
}

// SummaryFields lays the summary out in the order of the published JSON map.
func SummaryFields(s bloaty.SizeSummary) []ghoutput.Field {
	return []ghoutput.Field{
		{Key: "file-percentage", Value: s.FilePercentageString()},
		{Key: "file-absolute", Value: fmt.Sprintf("%d", s.FileAbsolute)},
		{Key: "vm-percentage", Value: s.VmPercentageString()},
		{Key: "vm-absolute", Value: fmt.Sprintf("%d", s.VmAbsolute)},
	}
}
