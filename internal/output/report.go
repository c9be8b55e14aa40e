package output

import "github.com/jmylchreest/tidyedit/pkg/cleaner/tidy"

// Report describes one cleaned input.
type Report struct {
	// Source is the input file path, or "-" for stdin.
	Source   string         `json:"source" yaml:"source"`
	Pipeline []string       `json:"pipeline" yaml:"pipeline"`
	Stats    *tidy.Stats    `json:"stats" yaml:"stats"`
	Warnings []tidy.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewReport builds a report from a pipeline result.
func NewReport(source string, pipeline []string, r *tidy.Result) Report {
	return Report{
		Source:   source,
		Pipeline: pipeline,
		Stats:    r.Stats,
		Warnings: r.Warnings,
	}
}
