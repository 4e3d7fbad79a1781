// internal/crew/pipeline.go
package crew

import (
	"fmt"
	"strings"

	"research-crew/internal/common/errors"
	"research-crew/internal/models"
	"research-crew/internal/tools"
)

// Consultation is a supplemental tool call whose text is appended to the
// stage output under a "[<Tool Name>]" header.
type Consultation struct {
	Tool  string
	Shape func(PipelineContext) string
}

// Stage binds a role, a prompt template, upstream stages and tool calls.
// Description and ExpectedOutput may carry {target_name}, {industry},
// {key_decision_maker}, {position} and {milestone} placeholders.
type Stage struct {
	Index          int
	Name           string
	Role           string
	Description    string
	ExpectedOutput string
	Upstream       []string
	PrimaryTool    string
	Shape          func(PipelineContext) string
	Consultations  []Consultation
}

// ToolIDs lists the primary tool followed by each consultation's tool.
func (s Stage) ToolIDs() []string {
	ids := make([]string, 0, len(s.Consultations)+1)
	ids = append(ids, s.PrimaryTool)
	for _, c := range s.Consultations {
		ids = append(ids, c.Tool)
	}
	return ids
}

// Describe fills the description placeholders from req.
func (s Stage) Describe(req models.AnalysisRequest) string {
	return placeholders(req).Replace(s.Description)
}

// Expect fills the expected-output placeholders from req.
func (s Stage) Expect(req models.AnalysisRequest) string {
	return placeholders(req).Replace(s.ExpectedOutput)
}

func placeholders(req models.AnalysisRequest) *strings.Replacer {
	return strings.NewReplacer(
		"{target_name}", req.TargetName,
		"{industry}", req.Industry,
		"{key_decision_maker}", req.KeyDecisionMaker,
		"{position}", req.Position,
		"{milestone}", req.Milestone,
	)
}

// Definition is everything BuildPipeline needs.
type Definition struct {
	Stages []Stage
	Roles  *Registry
	Tools  *tools.Set
}

// DefaultDefinition wires the built-in stages and roles to set.
func DefaultDefinition(set *tools.Set) Definition {
	return Definition{
		Stages: DefaultStages(),
		Roles:  DefaultRegistry(),
		Tools:  set,
	}
}

// Pipeline is a validated, ordered list of stages.
type Pipeline struct {
	stages []Stage
	byName map[string]int
	roles  *Registry
	tools  *tools.Set
}

// BuildPipeline validates def and numbers its stages from 1. A stage may
// only read stages declared before it, and every tool it calls must be in
// its role's capability set and resolvable in the tool set.
func BuildPipeline(def Definition) (*Pipeline, error) {
	if def.Roles == nil {
		return nil, errors.NewPipelineInvalidError("role registry is required")
	}
	if def.Tools == nil {
		return nil, errors.NewPipelineInvalidError("tool set is required")
	}
	if len(def.Stages) == 0 {
		return nil, errors.NewPipelineInvalidError("at least one stage is required")
	}

	p := &Pipeline{
		byName: make(map[string]int, len(def.Stages)),
		roles:  def.Roles,
		tools:  def.Tools,
	}

	for i, stage := range def.Stages {
		stage.Index = i + 1
		if err := p.check(stage); err != nil {
			return nil, err
		}
		p.byName[stage.Name] = i
		p.stages = append(p.stages, stage)
	}
	return p, nil
}

func (p *Pipeline) check(stage Stage) error {
	invalid := func(format string, args ...interface{}) error {
		return errors.NewPipelineInvalidError(fmt.Sprintf("stage %d (%s): ", stage.Index, stage.Name) + fmt.Sprintf(format, args...))
	}

	if stage.Name == "" {
		return invalid("name is required")
	}
	if _, dup := p.byName[stage.Name]; dup {
		return invalid("duplicate stage name")
	}

	role, ok := p.roles.Get(stage.Role)
	if !ok {
		return invalid("unknown role %q", stage.Role)
	}

	for _, up := range stage.Upstream {
		if _, ok := p.byName[up]; !ok {
			return invalid("upstream %q is unknown or not declared before this stage", up)
		}
	}

	if stage.Shape == nil {
		return invalid("primary tool %q has no input shaper", stage.PrimaryTool)
	}
	for _, c := range stage.Consultations {
		if c.Shape == nil {
			return invalid("consultation %q has no input shaper", c.Tool)
		}
	}
	for _, id := range stage.ToolIDs() {
		if !role.Can(id) {
			return invalid("tool %q is not in the capability set of %q", id, role.Name)
		}
		if _, ok := p.tools.Get(id); !ok {
			return invalid("tool %q is not registered", id)
		}
	}
	return nil
}

// Stages returns the stages in execution order.
func (p *Pipeline) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

func (p *Pipeline) Stage(name string) (Stage, bool) {
	i, ok := p.byName[name]
	if !ok {
		return Stage{}, false
	}
	return p.stages[i], true
}

func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Roster is the role names in registry order.
func (p *Pipeline) Roster() []string {
	return p.roles.Names()
}

func (p *Pipeline) Roles() *Registry {
	return p.roles
}

func (p *Pipeline) Tools() *tools.Set {
	return p.tools
}
