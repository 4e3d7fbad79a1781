// Package strategy maps planning objectives onto fixed strategy templates.
package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"research-crew/internal/common/validation"
	"research-crew/internal/tools"
)

const (
	name        = "Strategic Planning Tool"
	description = "Develops strategic recommendations based on input context. Expects a JSON string containing 'organization_type' and 'objectives'."

	defaultOrganizationType = "general business"
	defaultTargetInfo       = "the organization"
)

var defaultObjectives = []string{"growth", "efficiency"}

// Request is the JSON payload the tool accepts.
type Request struct {
	OrganizationType string   `json:"organization_type,omitempty"`
	Objectives       []string `json:"objectives"`
	TargetInfo       string   `json:"target_info,omitempty"`
}

// Encode renders r as the JSON string the tool expects.
func (r Request) Encode() string {
	b, _ := json.Marshal(r)
	return string(b)
}

// request mirrors Request with pointers so absent keys can take defaults.
type request struct {
	OrganizationType *string   `json:"organization_type"`
	Objectives       *[]string `json:"objectives"`
	TargetInfo       *string   `json:"target_info"`
}

func inputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"organization_type": {Type: "string", Description: "Industry or kind of organization"},
			"objectives": {
				Type:        "array",
				Description: "Ordered objective keys",
				Items:       &validation.Property{Type: "string"},
			},
			"target_info": {Type: "string", Description: "Who the strategy is for"},
		},
		AdditionalProperties: true,
	}
}

// templates are keyed by objective; %[1]s is the target, %[2]s the organization type.
var templates = map[string]string{
	"growth":               "Focus on market expansion for %[1]s. Explore targeted digital marketing, strategic partnerships, and potentially new service/product lines based on market analysis.",
	"efficiency":           "Implement process optimization for %[1]s. Analyze workflows for automation opportunities (RPA/AI), adopt data analytics for decision-making, and review resource allocation.",
	"innovation":           "Foster an innovation culture within %[1]s. Establish R&D initiatives or cross-functional teams, explore emerging technologies relevant to %[2]s, and create pathways for internal idea generation.",
	"customer_retention":   "Enhance customer loyalty for %[1]s. Develop personalized engagement strategies using CRM data, improve customer support channels, and implement feedback loops for continuous improvement.",
	"market_penetration":   "Increase market share within existing segments for %[1]s. Consider competitive pricing strategies, enhanced marketing campaigns, and loyalty programs.",
	"product_development":  "Introduce new products/services or enhance existing ones for %[1]s. Conduct market research to identify unmet needs and invest in R&D.",
	"diversification":      "Expand into new markets or product categories for %[1]s to reduce risk. Assess adjacent opportunities and potential synergies.",
	"risk_assessment":      "Conduct a thorough risk analysis for %[1]s covering operational, financial, market, and regulatory areas. Identify key vulnerabilities and impacts.",
	"improvement":          "Identify specific areas for performance improvement within %[1]s based on prior analysis (e.g., sales process, supply chain, product quality). Set measurable targets.",
	"contingency_planning": "Develop contingency plans for identified high-impact risks for %[1]s. Outline response strategies for scenarios like economic downturns, competitor actions, or operational disruptions.",
}

// Known reports whether objective has a predefined template.
func Known(objective string) bool {
	_, ok := templates[objective]
	return ok
}

type Tool struct{}

func New() *Tool {
	return &Tool{}
}

func (t *Tool) ID() string          { return tools.IDStrategicPlanning }
func (t *Tool) Name() string        { return name }
func (t *Tool) Description() string { return description }

func (t *Tool) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:               t.ID(),
		Name:             name,
		Description:      description,
		InputKind:        tools.InputJSON,
		ReliabilityScore: 0.95,
	}
}

func (t *Tool) Execute(_ context.Context, input string) (string, error) {
	req, err := t.parse(input)
	if err != nil {
		return "", err
	}

	recommendations := make([]string, 0, len(req.Objectives))
	for _, obj := range req.Objectives {
		title := tools.Humanize(obj)
		if tmpl, ok := templates[obj]; ok {
			recommendations = append(recommendations,
				fmt.Sprintf("- **Objective: %s**\n  - Strategy: %s", title, fmt.Sprintf(tmpl, req.TargetInfo, req.OrganizationType)))
			continue
		}
		recommendations = append(recommendations,
			fmt.Sprintf("- Objective: %s - No predefined strategy template available. Requires custom development.", title))
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"- No specific objectives provided or matched. Default recommendation: Focus on core business stability and incremental improvements.")
	}

	return fmt.Sprintf("Strategic Recommendations for %s (%s):\n\n%s",
		req.TargetInfo, req.OrganizationType, strings.Join(recommendations, "\n")), nil
}

func (t *Tool) parse(input string) (*Request, error) {
	result, err := validation.ValidateJSON(input, inputSchema())
	if err != nil {
		return nil, tools.NewInputError(t.ID(),
			fmt.Sprintf("Error: Invalid JSON received by Strategic Planning Tool. Input started with: %s...",
				tools.Truncate(input, tools.InputPreviewLength)),
			input, err)
	}
	if !result.Valid {
		return nil, tools.NewInputError(t.ID(),
			fmt.Sprintf("Error processing input in Strategic Planning Tool: %s",
				strings.Join(result.GetErrorMessages(), "; ")),
			input, nil)
	}

	var raw request
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		return nil, tools.NewInputError(t.ID(),
			fmt.Sprintf("Error processing input in Strategic Planning Tool: %s", err.Error()),
			input, err)
	}

	req := &Request{
		OrganizationType: defaultOrganizationType,
		Objectives:       defaultObjectives,
		TargetInfo:       defaultTargetInfo,
	}
	if raw.OrganizationType != nil {
		req.OrganizationType = *raw.OrganizationType
	}
	if raw.Objectives != nil {
		req.Objectives = *raw.Objectives
	}
	if raw.TargetInfo != nil {
		req.TargetInfo = *raw.TargetInfo
	}
	return req, nil
}
