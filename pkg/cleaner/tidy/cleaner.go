package tidy

import (
	"time"

	"github.com/jmylchreest/tidyedit/internal/logger"
	"github.com/jmylchreest/tidyedit/pkg/cleaner"
	"github.com/jmylchreest/tidyedit/pkg/transform"
)

// stage is a compiled pipeline step.
type stage struct {
	name string
	run  func(string) (string, int, error)
}

// Cleaner runs a configured pipeline.
// It implements the cleaner.Cleaner interface and is safe for concurrent use.
type Cleaner struct {
	config *Config
	stages []stage
}

var _ cleaner.Cleaner = (*Cleaner)(nil)

// New validates config and compiles its stages.
// If config is nil, DefaultConfig() is used.
func New(config *Config) (*Cleaner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Cleaner{
		config: config,
		stages: make([]stage, 0, len(config.Stages)),
	}
	for _, s := range config.Stages {
		c.stages = append(c.stages, compile(s))
	}
	return c, nil
}

// compile turns a validated stage into its runner.
func compile(s Stage) stage {
	var counted transform.Counted
	switch s.Type {
	case StageStripContainer:
		counted = transform.StripContainerTagCounted(s.Element)
	case StageStripVoid:
		counted = transform.StripVoidTagCounted(s.Element)
	case StageRemoveReference:
		counted = transform.RemoveNamedReferenceCounted(s.Reference)
	case StagePruneEmpty:
		counted = transform.PruneEmptyCounted(s.Element)
	case StageDOMPrune:
		dom := cleaner.NewDOMPrune(s.Elements...)
		return stage{name: s.Name(), run: dom.PruneCount}
	}

	return stage{
		name: s.Name(),
		run: func(in string) (string, int, error) {
			out, n := counted(in)
			return out, n, nil
		},
	}
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "tidy"
}

// Stages returns the stage names in execution order.
func (c *Cleaner) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.name
	}
	return names
}

// Clean runs the pipeline.
// A failing stage is skipped rather than failing the whole run; use
// CleanWithStats to see which stages failed.
func (c *Cleaner) Clean(html string) (string, error) {
	return c.CleanWithStats(html).Content, nil
}

// CleanWithStats runs the pipeline and returns detailed stats.
func (c *Cleaner) CleanWithStats(html string) *Result {
	start := time.Now()
	result := &Result{
		Stats: &Stats{
			InputBytes: len(html),
			Stages:     make([]StageStats, 0, len(c.stages)),
		},
	}

	content := html
	for _, s := range c.stages {
		stageStart := time.Now()
		out, removed, err := s.run(content)
		st := StageStats{Name: s.name, Removed: removed, Duration: time.Since(stageStart)}
		result.Stats.Stages = append(result.Stats.Stages, st)

		if err != nil {
			// Graceful degradation: carry the stage input forward
			result.AddWarning(s.name, err.Error())
			logger.Warn("stage failed, skipping", "stage", s.name, "error", err)
			continue
		}
		content = out

		if c.config.Debug {
			logger.Debug("stage complete",
				"stage", s.name,
				"removed", removed,
				"bytes", len(content),
				"duration", st.Duration)
		}
	}

	result.Content = content
	result.Stats.OutputBytes = len(content)
	result.Stats.TotalDuration = time.Since(start)
	return result
}
