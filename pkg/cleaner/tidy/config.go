// Package tidy provides a configurable cleaner for contenteditable markup.
// A pipeline is described as an ordered list of stages, loaded from YAML or
// JSON or taken from a preset, and run with per-stage statistics.
package tidy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/tidyedit/pkg/transform"
)

// Sentinel errors for configuration handling.
var (
	ErrInvalidConfig = errors.New("invalid pipeline config")
	ErrUnknownPreset = errors.New("unknown preset")
)

// StageType names the operation a stage performs.
type StageType string

const (
	// StageStripContainer removes a container element's tags, keeping content.
	StageStripContainer StageType = "strip_container"
	// StageStripVoid removes a void element entirely.
	StageStripVoid StageType = "strip_void"
	// StageRemoveReference removes a named character reference.
	StageRemoveReference StageType = "remove_reference"
	// StagePruneEmpty prunes empty occurrences of one element.
	StagePruneEmpty StageType = "prune_empty"
	// StageDOMPrune prunes empty elements on the parsed document tree.
	StageDOMPrune StageType = "dom_prune"
)

// StageTypes lists every stage type with a short description.
func StageTypes() map[StageType]string {
	return map[StageType]string{
		StageStripContainer:  "remove <element> and </element> tags, keep their content",
		StageStripVoid:       "remove every <element>, <element/> and <element /> tag",
		StageRemoveReference: "remove every &reference; (named form only)",
		StagePruneEmpty:      "remove empty <element></element> pairs, recursively",
		StageDOMPrune:        "parse the markup and remove empty elements from the tree",
	}
}

// Stage is one step of a pipeline.
type Stage struct {
	Type StageType `json:"type" yaml:"type" validate:"required,oneof=strip_container strip_void remove_reference prune_empty dom_prune"`

	// Element is the element name for strip_container, strip_void and
	// prune_empty.
	Element string `json:"element,omitempty" yaml:"element,omitempty" validate:"omitempty,element"`

	// Elements lists the element names for dom_prune. Empty means the
	// cleaner defaults.
	Elements []string `json:"elements,omitempty" yaml:"elements,omitempty" validate:"omitempty,dive,element"`

	// Reference is the reference name for remove_reference, with or
	// without the surrounding & and ;.
	Reference string `json:"reference,omitempty" yaml:"reference,omitempty" validate:"required_if=Type remove_reference,omitempty,reference"`
}

// Name returns a short label such as "prune_empty(em)".
func (s Stage) Name() string {
	switch s.Type {
	case StageRemoveReference:
		return fmt.Sprintf("%s(%s)", s.Type, s.Reference)
	case StageDOMPrune:
		return fmt.Sprintf("%s(%s)", s.Type, strings.Join(s.Elements, ","))
	default:
		return fmt.Sprintf("%s(%s)", s.Type, s.Element)
	}
}

// Config describes a pipeline.
type Config struct {
	// Stages run in order, each on the previous stage's output.
	Stages []Stage `json:"stages" yaml:"stages" validate:"dive"`

	// Debug logs every stage with its removal count and duration.
	Debug bool `json:"debug" yaml:"debug"`
}

// DefaultConfig returns the pipeline for contenteditable innerHTML:
// unwrap divs, drop line breaks and &nbsp;, prune empty em, strong and p.
func DefaultConfig() *Config {
	return &Config{
		Stages: []Stage{
			{Type: StageStripContainer, Element: "div"},
			{Type: StageStripVoid, Element: "br"},
			{Type: StageRemoveReference, Reference: "nbsp"},
			{Type: StagePruneEmpty, Element: "em"},
			{Type: StagePruneEmpty, Element: "strong"},
			{Type: StagePruneEmpty, Element: "p"},
		},
	}
}

// PresetMinimal only removes divs, line breaks and &nbsp;.
func PresetMinimal() *Config {
	cfg := DefaultConfig()
	cfg.Stages = cfg.Stages[:3]
	return cfg
}

// PresetAggressive extends the default with the legacy inline elements
// editors produce and a final tree-based pass over all of them.
func PresetAggressive() *Config {
	cfg := DefaultConfig()
	inline := []string{"span", "b", "i", "u"}
	for _, e := range inline {
		cfg.Stages = append(cfg.Stages, Stage{Type: StagePruneEmpty, Element: e})
	}
	cfg.Stages = append(cfg.Stages, Stage{
		Type:     StageDOMPrune,
		Elements: append([]string{"em", "strong", "p"}, inline...),
	})
	return cfg
}

var presets = map[string]func() *Config{
	"default":    DefaultConfig,
	"minimal":    PresetMinimal,
	"aggressive": PresetAggressive,
}

// Preset returns the named preset configuration.
func Preset(name string) (*Config, error) {
	if name == "" {
		return DefaultConfig(), nil
	}
	fn, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	return fn(), nil
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadConfig loads and validates a pipeline from a JSON or YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported pipeline file format: %s", ext)
	}
}

// ParseJSON parses and validates a pipeline from JSON data.
func ParseJSON(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON pipeline: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseYAML parses and validates a pipeline from YAML data.
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML pipeline: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every stage. All problems are reported in one error
// wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		msgs = append(msgs, field+" "+formatValidationError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// YAML renders the config as YAML.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their config-file names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("element", func(fl validator.FieldLevel) bool {
		return transform.ValidElementName(fl.Field().String())
	})
	_ = v.RegisterValidation("reference", func(fl validator.FieldLevel) bool {
		return transform.ValidReferenceName(fl.Field().String())
	})

	v.RegisterStructValidation(validateStage, Stage{})
	return v
}

// validateStage enforces the fields each stage type needs.
func validateStage(sl validator.StructLevel) {
	s := sl.Current().Interface().(Stage)

	switch s.Type {
	case StageStripContainer, StageStripVoid, StagePruneEmpty:
		if s.Element == "" {
			sl.ReportError(s.Element, "element", "Element", "required", "")
		}
	case StageRemoveReference, StageDOMPrune:
		if s.Element != "" {
			sl.ReportError(s.Element, "element", "Element", "excluded", string(s.Type))
		}
	}
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(e.Param(), " ", ", "))
	case "element":
		return fmt.Sprintf("%q is not a valid element name", e.Value())
	case "reference":
		return fmt.Sprintf("%q is not a valid reference name", e.Value())
	case "excluded":
		return fmt.Sprintf("is not used by %s stages", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
