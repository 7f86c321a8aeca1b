package ghoutput

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/PX4/bloaty-action/internal/runner"
	"github.com/google/uuid"
)

const (
	defaultDelimiter = "EOF"
	jqCommand        = "jq"
)

var ErrJqOutputTooShort = errors.New("the jq output is too short")

// Field is one key/value pair of a structured output. Order is preserved in
// the JSON object jq produces.
type Field struct {
	Key   string
	Value string
}

// Writer appends values to the files GitHub Actions names through
// environment variables such as GITHUB_OUTPUT and GITHUB_STEP_SUMMARY.
type Writer struct {
	exec   runner.Executor
	logger *slog.Logger
}

func NewWriter(exec runner.Executor, logger *slog.Logger) *Writer {
	return &Writer{exec: exec, logger: logger}
}

// Write appends value to the file named by envVar. With an empty key the value
// is written as a single line, otherwise as a key<<EOF heredoc block.
// An unset envVar is logged and skipped so the action still works locally.
func (w *Writer) Write(envVar string, key string, value string) error {
	path, ok := os.LookupEnv(envVar)
	if !ok {
		w.logger.Warn("could not add to GitHub environment file; is this running in a GitHub Actions environment?",
			"var", envVar, "key", key, "value", value)
		return nil
	}

	fh, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s file %s: %w", envVar, path, err)
	}
	defer fh.Close()

	var block string
	if key == "" {
		block = value + "\n"
	} else {
		delim := delimiterFor(value)
		block = fmt.Sprintf("%s<<%s\n%s\n%s\n", key, delim, value, delim)
	}

	if _, err := fh.WriteString(block); err != nil {
		return fmt.Errorf("failed to write %s file %s: %w", envVar, path, err)
	}

	w.logger.Debug("added to GitHub environment file", "var", envVar, "key", key, "bytes", len(block))
	return fh.Close()
}

// WriteMap encodes fields as a JSON object with jq and writes the escaped,
// single-line result under key.
func (w *Writer) WriteMap(ctx context.Context, envVar string, key string, fields []Field) error {
	jqArgs := []string{"-n"}
	for _, f := range fields {
		jqArgs = append(jqArgs, "--arg", f.Key, f.Value)
	}
	jqArgs = append(jqArgs, "$ARGS.named")

	res, err := w.exec.Run(ctx, jqCommand, jqArgs)
	if err != nil {
		return err
	}

	if len(res.Output) < 3 {
		return fmt.Errorf("%w: %s", ErrJqOutputTooShort, EscapeBytes(res.Output))
	}

	return w.Write(envVar, key, EscapeBytes(res.Output))
}

// delimiterFor keeps the conventional EOF delimiter unless the value itself
// holds an EOF line, which would end the heredoc early.
func delimiterFor(value string) string {
	for _, line := range strings.Split(value, "\n") {
		if strings.TrimSuffix(line, "\r") == defaultDelimiter {
			return "ghadelimiter_" + uuid.NewString()
		}
	}
	return defaultDelimiter
}
