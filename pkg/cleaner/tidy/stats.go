package tidy

import (
	"fmt"
	"strings"
	"time"
)

// StageStats captures what one stage did.
type StageStats struct {
	Name     string        `json:"name" yaml:"name"`
	Removed  int           `json:"removed" yaml:"removed"`
	Duration time.Duration `json:"duration_ns" yaml:"duration"`
}

// Stats captures metrics about a pipeline run.
type Stats struct {
	InputBytes    int           `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes   int           `json:"output_bytes" yaml:"output_bytes"`
	Stages        []StageStats  `json:"stages" yaml:"stages"`
	TotalDuration time.Duration `json:"total_duration_ns" yaml:"total_duration"`
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// TotalRemoved returns the number of tags, references and elements removed
// across all stages.
func (s *Stats) TotalRemoved() int {
	total := 0
	for _, st := range s.Stages {
		total += st.Removed
	}
	return total
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Size: %d -> %d bytes (%.1f%% reduction)\n",
		s.InputBytes, s.OutputBytes, s.ReductionPercent())
	fmt.Fprintf(&sb, "Removed: %d\n", s.TotalRemoved())

	for _, st := range s.Stages {
		if st.Removed > 0 {
			fmt.Fprintf(&sb, "  %-28s %d\n", st.Name, st.Removed)
		}
	}

	fmt.Fprintf(&sb, "Timing: total=%v\n", s.TotalDuration.Round(time.Microsecond))
	return sb.String()
}

// Warning represents a stage that failed and was skipped.
type Warning struct {
	Stage   string `json:"stage" yaml:"stage"`
	Message string `json:"message" yaml:"message"`
}

// String returns a formatted warning message.
func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
}

// Result contains the output of a pipeline run.
type Result struct {
	// Content is the cleaned output. A failed stage passes its input on.
	Content string `json:"content" yaml:"content"`

	// Stats contains metrics about what was done.
	Stats *Stats `json:"stats" yaml:"stats"`

	// Warnings contains stages that failed.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(stage, message string) {
	r.Warnings = append(r.Warnings, Warning{Stage: stage, Message: message})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
