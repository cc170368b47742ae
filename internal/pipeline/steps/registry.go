// Package steps defines the render pipeline's steps, their dependencies and
// the order they run in.
package steps

import (
	"fmt"
	"strings"
)

// Step names
const (
	StepDecode     = "decode_entities"
	StepConvert    = "convert"
	StepRepair     = "repair"
	StepNormalize  = "normalize"
	StepSanitize   = "sanitize"
	StepWrapTables = "wrap_tables"
)

// Step categories
const (
	CategoryInput        = "input"
	CategoryMarkup       = "markup"
	CategorySafety       = "safety"
	CategoryPresentation = "presentation"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	// Optional steps run before this one when enabled but are not required
	Optional []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	StepDecode: {
		Name:         StepDecode,
		Category:     CategoryInput,
		Dependencies: []string{},
		Optional:     []string{},
	},
	StepConvert: {
		Name:         StepConvert,
		Category:     CategoryInput,
		Dependencies: []string{},
		Optional:     []string{StepDecode},
	},
	StepRepair: {
		Name:         StepRepair,
		Category:     CategoryMarkup,
		Dependencies: []string{StepConvert},
		Optional:     []string{},
	},
	StepNormalize: {
		Name:         StepNormalize,
		Category:     CategoryMarkup,
		Dependencies: []string{StepRepair},
		Optional:     []string{},
	},
	StepSanitize: {
		Name:         StepSanitize,
		Category:     CategorySafety,
		Dependencies: []string{StepNormalize},
		Optional:     []string{},
	},
	StepWrapTables: {
		Name:         StepWrapTables,
		Category:     CategoryPresentation,
		Dependencies: []string{StepNormalize},
		Optional:     []string{StepSanitize},
	},
}

// sequence is the canonical run order; every step follows its dependencies
var sequence = []string{StepDecode, StepConvert, StepRepair, StepNormalize, StepSanitize, StepWrapTables}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %s", e.Step, strings.Join(e.MissingDependencies, ", "))
}

// ValidateDependencies checks that every required dependency of stepName is
// in enabled
func ValidateDependencies(stepName string, enabled map[string]bool) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !enabled[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Step: stepName, MissingDependencies: missing}
	}
	return nil
}

// Plan returns the enabled steps in run order after validating their
// dependencies
func Plan(enabled map[string]bool) ([]string, error) {
	for name := range enabled {
		if _, ok := StepRegistry[name]; !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
	}

	var plan []string
	for _, name := range sequence {
		if !enabled[name] {
			continue
		}
		if err := ValidateDependencies(name, enabled); err != nil {
			return nil, err
		}
		plan = append(plan, name)
	}
	return plan, nil
}
