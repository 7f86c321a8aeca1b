package ghoutput

import (
	"fmt"

	"github.com/PX4/bloaty-action/internal/environment"
)

// FormatStepSummary renders a captured command output as a Markdown section.
func FormatStepSummary(title string, commandLine string, output string) string {
	return fmt.Sprintf("## %s\nFrom command: `%s`\n```\n%s\n```\n\n", title, commandLine, output)
}

// WriteStepSummary appends the Markdown section to the workflow summary file.
func (w *Writer) WriteStepSummary(title string, commandLine string, output string) error {
	w.logger.Debug("adding output to the workflow summary", "title", title)
	return w.Write(environment.GithubStepSummary, "", FormatStepSummary(title, commandLine, output))
}
