// Package behave loads TOML scenario files of bloaty CSV reports for
// fixture-driven tests of the size aggregation.
package behave

import (
	"fmt"
	"os"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pelletier/go-toml/v2"
)

// Error kinds a scenario may expect instead of a summary.
const (
	ErrorNotEnoughLines = "not_enough_lines"
	ErrorUnexpectedRow  = "unexpected_row"
	ErrorNotANumber     = "not_a_number"
)

var errorKinds = mapset.NewSet(ErrorNotEnoughLines, ErrorUnexpectedRow, ErrorNotANumber)

// Expectation is the summary a scenario should produce, or the error kind it
// should fail with.
type Expectation struct {
	FileAbsolute   int64  `toml:"file_absolute"`
	FilePercentage string `toml:"file_percentage"`
	VmAbsolute     int64  `toml:"vm_absolute"`
	VmPercentage   string `toml:"vm_percentage"`
	Error          string `toml:"error"`
}

// scenario maps to [[scenarios]] entries.
type scenario struct {
	Description string      `toml:"description"`
	CSV         string      `toml:"csv"`
	Expect      Expectation `toml:"expect"`
}

type scenarioFile struct {
	Scenarios []scenario `toml:"scenarios"`
}

// Case is a runnable scenario converted from TOML.
type Case struct {
	Name   string
	CSV    string
	Expect Expectation
}

// Parse reads a behaviour TOML file of bloaty CSV reports and the summaries
// they are expected to aggregate to.
func Parse(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read behaviour file: %w", err)
	}
	var root scenarioFile
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cases := make([]Case, 0, len(root.Scenarios))
	for i, sc := range root.Scenarios {
		if sc.Description == "" {
			return nil, fmt.Errorf("scenario %d is missing a description", i)
		}
		if sc.Expect.Error != "" && !errorKinds.Contains(sc.Expect.Error) {
			return nil, fmt.Errorf("scenario %q: unknown error kind %q", sc.Description, sc.Expect.Error)
		}
		if sc.Expect.Error == "" && (sc.Expect.FilePercentage == "" || sc.Expect.VmPercentage == "") {
			return nil, fmt.Errorf("scenario %q: expect block needs both percentages", sc.Description)
		}

		cases = append(cases, Case{
			Name:   sc.Description,
			CSV:    sc.CSV,
			Expect: sc.Expect,
		})
	}

	return cases, nil
}
