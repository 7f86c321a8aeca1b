package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/joho/godotenv"
)

const (
	VerboseVar         = "INPUT_ACTION-VERBOSE"
	OutputToSummaryVar = "INPUT_OUTPUT-TO-SUMMARY"
	SummaryTitleVar    = "INPUT_SUMMARY-TITLE"
	GithubOutput       = "GITHUB_OUTPUT"
	GithubStepSummary  = "GITHUB_STEP_SUMMARY"
	GithubActions      = "GITHUB_ACTIONS"

	DefaultSummaryTitle = "bloaty output"
)

// truthy holds the only spellings the action inputs accept as "on".
var truthy = mapset.NewSet("true", "True", "1")

// ParseBoolean reports whether value is one of the accepted truthy literals.
// Anything else, including "TRUE" and "yes", is false.
func ParseBoolean(value string) bool {
	return truthy.Contains(value)
}

type EnvConfig struct {
	Verbose         bool
	OutputToSummary bool
	SummaryTitle    string
	// DotEnvErr is set when a .env file was present but could not be parsed.
	// It is reported as a warning and never stops the action.
	DotEnvErr error
}

// ReadEnvConfig loads an optional .env file from the working directory and
// then reads the action inputs from the process environment.
// Inside GitHub Actions the working directory is the caller's checkout, so
// .env is not read there at all.
func ReadEnvConfig() (*EnvConfig, error) {
	result := &EnvConfig{SummaryTitle: DefaultSummaryTitle}

	if _, ok := os.LookupEnv(GithubActions); !ok {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			result.DotEnvErr = fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	result.Verbose = ParseBoolean(os.Getenv(VerboseVar))
	result.OutputToSummary = ParseBoolean(os.Getenv(OutputToSummaryVar))

	if title, ok := os.LookupEnv(SummaryTitleVar); ok {
		result.SummaryTitle = title
	}

	return result, nil
}
