package skills

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/glasslink/skillrt/features"
	"github.com/glasslink/skillrt/types"
)

// DefaultVectorWidth is the vector width used when a skill definition
// does not specify one; matches the common backend input shape.
const DefaultVectorWidth = 64

// Definition is the declarative skill document consumed at bootstrap
// and, after manifest verification, on skill-package updates.
type Definition struct {
	Version string     `yaml:"version,omitempty" json:"version,omitempty"`
	Skills  []SkillDef `yaml:"skills" json:"skills"`
}

// SkillDef declares one skill: id, the feature builder it uses, the
// vector width, and its trigger phrases.
type SkillDef struct {
	ID       string   `yaml:"id" json:"id"`
	Builder  string   `yaml:"builder" json:"builder"`
	Width    int      `yaml:"width,omitempty" json:"width,omitempty"`
	Triggers []string `yaml:"triggers,omitempty" json:"triggers,omitempty"`
}

// RunnerFactory supplies the execution strategy for a declared skill.
// Bootstrap wires inference-hub runners; tests wire mocks.
type RunnerFactory func(id string) (VectorRunner, error)

// ParseDefinition parses a definition document. Bootstrap bytes carry
// no filename, so the format is sniffed: documents starting with '{'
// parse as JSON, everything else as YAML.
func ParseDefinition(data []byte) (*Definition, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, types.NewError(types.ErrBadDefinition, "empty definition document")
	}

	var def Definition
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &def); err != nil {
			return nil, types.NewError(types.ErrBadDefinition, "parse JSON definition").WithCause(err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &def); err != nil {
			return nil, types.NewError(types.ErrBadDefinition, "parse YAML definition").WithCause(err)
		}
	}
	return &def, nil
}

// Validate checks the document against the builder registry. Any
// defect fails the whole document; partial loads must not happen.
func (d *Definition) Validate(builders *features.Registry) error {
	if len(d.Skills) == 0 {
		return types.NewError(types.ErrBadDefinition, "definition declares no skills")
	}
	seen := make(map[string]bool, len(d.Skills))
	for i, s := range d.Skills {
		if s.ID == "" {
			return types.NewError(types.ErrBadDefinition, fmt.Sprintf("skill %d: id is required", i))
		}
		if seen[s.ID] {
			return types.NewError(types.ErrBadDefinition, "duplicate skill id in document").WithSkill(s.ID)
		}
		seen[s.ID] = true
		if s.Builder == "" {
			return types.NewError(types.ErrBadDefinition, "builder name is required").WithSkill(s.ID)
		}
		if _, ok := builders.Get(s.Builder); !ok {
			return types.NewError(types.ErrBuilderUnknown, fmt.Sprintf("unknown feature builder %q", s.Builder)).WithSkill(s.ID)
		}
		if s.Width < 0 {
			return types.NewError(types.ErrBadDefinition, "width must be non-negative").WithSkill(s.ID)
		}
	}
	return nil
}

// LoadDefinition parses, validates, and registers every skill the
// document declares, atomically: a malformed document or failing
// factory leaves the registry untouched.
func (r *Registry) LoadDefinition(data []byte, builders *features.Registry, factory RunnerFactory) error {
	def, err := ParseDefinition(data)
	if err != nil {
		return err
	}
	return r.LoadParsedDefinition(def, builders, factory)
}

// LoadParsedDefinition registers an already-parsed document, atomically.
func (r *Registry) LoadParsedDefinition(def *Definition, builders *features.Registry, factory RunnerFactory) error {
	if factory == nil {
		return types.NewError(types.ErrBadDefinition, "runner factory is required")
	}
	if err := def.Validate(builders); err != nil {
		return err
	}

	// Stage every registration before touching the registry.
	regs := make([]*Registration, 0, len(def.Skills))
	for _, s := range def.Skills {
		builder, _ := builders.Get(s.Builder)
		width := s.Width
		if width == 0 {
			width = DefaultVectorWidth
		}
		runner, err := factory(s.ID)
		if err != nil {
			return types.NewError(types.ErrBadDefinition, "runner factory failed").WithSkill(s.ID).WithCause(err)
		}
		reg, err := newRegistration[types.Payload, []float64, []float64](
			s.ID, NewBuilderDescriptor(builder, width), runner, s.Triggers)
		if err != nil {
			return err
		}
		regs = append(regs, reg)
	}

	r.insertAll(regs)
	r.logger.Info("definition loaded", zap.Int("skills", len(regs)))
	return nil
}
