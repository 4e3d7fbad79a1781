// internal/crew/roles.go
package crew

import (
	"fmt"

	"research-crew/internal/tools"
)

const (
	RoleResearchCoordinator = "Research Coordinator"
	RoleMarketResearch      = "Market Research Specialist"
	RoleStrategicPlanning   = "Strategic Planning Expert"
	RoleCommunication       = "Communication Specialist"
)

// Role is a named agent profile. Tools lists the tool IDs the role may use.
type Role struct {
	Name            string   `json:"role"`
	Goal            string   `json:"goal"`
	Backstory       string   `json:"backstory"`
	AllowDelegation bool     `json:"allowDelegation"`
	Tools           []string `json:"tools"`
}

// Can reports whether toolID is in the role's capability set.
func (r Role) Can(toolID string) bool {
	for _, id := range r.Tools {
		if id == toolID {
			return true
		}
	}
	return false
}

// DefaultRoles returns the four built-in profiles in roster order.
func DefaultRoles() []Role {
	return []Role{
		{
			Name: RoleResearchCoordinator,
			Goal: "Orchestrate research efforts and synthesize findings into actionable intelligence briefs about target organizations and markets.",
			Backstory: "You excel at managing complex research projects, directing specialized agents, " +
				"and integrating diverse information sources. Your talent lies in asking the right questions, " +
				"ensuring comprehensive coverage, and creating clear, concise intelligence reports that drive decision-making.",
			AllowDelegation: true,
			Tools:           []string{tools.IDWebSearch, tools.IDKnowledgeBase},
		},
		{
			Name: RoleMarketResearch,
			Goal: "Provide deep market intelligence, analyze industry trends, and assess competitive landscapes to inform strategic positioning.",
			Backstory: "You are an expert analyst with deep experience across multiple industries. " +
				"Your ability to identify patterns, quantify market dynamics, and extract meaningful insights " +
				"from complex data sets makes you invaluable for understanding market opportunities and threats.",
			AllowDelegation: false,
			Tools:           []string{tools.IDMarketAnalysis, tools.IDWebSearch, tools.IDKnowledgeBase},
		},
		{
			Name: RoleStrategicPlanning,
			Goal: "Develop actionable and effective engagement strategies based on research findings and organizational objectives.",
			Backstory: "You are a master strategist, adept at translating research and analysis into concrete plans. " +
				"With exceptional analytical thinking and creative problem-solving, you craft strategies that align capabilities " +
				"with market opportunities, address target needs, and anticipate challenges.",
			AllowDelegation: true,
			Tools:           []string{tools.IDStrategicPlanning, tools.IDKnowledgeBase, tools.IDMarketAnalysis},
		},
		{
			Name: RoleCommunication,
			Goal: "Craft compelling, personalized, and impactful communications tailored to specific audiences and strategic objectives.",
			Backstory: "Your background in communication theory, psychology, and stakeholder engagement makes you exceptionally skilled " +
				"at crafting messages that resonate. You excel at adapting tone, style, and content for maximum impact across different channels and audiences.",
			AllowDelegation: false,
			Tools:           []string{tools.IDCommunicationOptimization, tools.IDSentimentAnalysis, tools.IDKnowledgeBase},
		},
	}
}

// Registry holds roles in registration order.
type Registry struct {
	roles  []Role
	byName map[string]int
}

func NewRegistry(roles ...Role) (*Registry, error) {
	r := &Registry{byName: make(map[string]int, len(roles))}
	for _, role := range roles {
		if role.Name == "" {
			return nil, fmt.Errorf("role name is required")
		}
		if _, dup := r.byName[role.Name]; dup {
			return nil, fmt.Errorf("duplicate role %q", role.Name)
		}
		r.byName[role.Name] = len(r.roles)
		r.roles = append(r.roles, role)
	}
	return r, nil
}

// DefaultRegistry is the registry of DefaultRoles.
func DefaultRegistry() *Registry {
	r, _ := NewRegistry(DefaultRoles()...)
	return r
}

func (r *Registry) Get(name string) (Role, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Role{}, false
	}
	return r.roles[i], true
}

// Names returns the roster in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.roles))
	for i, role := range r.roles {
		names[i] = role.Name
	}
	return names
}

func (r *Registry) Roles() []Role {
	out := make([]Role, len(r.roles))
	copy(out, r.roles)
	return out
}
