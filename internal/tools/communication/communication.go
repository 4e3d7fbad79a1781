// Package communication suggests enhancements for an outreach message.
package communication

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"research-crew/internal/common/validation"
	"research-crew/internal/tools"
)

const (
	name        = "Communication Optimization Tool"
	description = "Analyzes and suggests enhancements for communication effectiveness. Expects a JSON string with 'audience', 'message' context, and 'objective'."

	defaultAudience  = "a general audience"
	defaultMessage   = "a standard communication"
	defaultObjective = "inform"

	messagePreviewLength = 150
)

// Request is the JSON payload the tool accepts.
type Request struct {
	Audience  string `json:"audience,omitempty"`
	Message   string `json:"message,omitempty"`
	Objective string `json:"objective,omitempty"`
}

// Encode renders r as the JSON string the tool expects.
func (r Request) Encode() string {
	b, _ := json.Marshal(r)
	return string(b)
}

type request struct {
	Audience  *string `json:"audience"`
	Message   *string `json:"message"`
	Objective *string `json:"objective"`
}

func inputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"audience":  {Type: "string", Description: "Who receives the message"},
			"message":   {Type: "string", Description: "Context of the message being optimized"},
			"objective": {Type: "string", Description: "What the message should achieve"},
		},
		AdditionalProperties: true,
	}
}

type Tool struct{}

func New() *Tool {
	return &Tool{}
}

func (t *Tool) ID() string          { return tools.IDCommunicationOptimization }
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

	audience, objective := req.Audience, req.Objective
	enhancements := []string{
		fmt.Sprintf("**Audience Adaptation**: Ensure language, tone, and complexity are appropriate for `%s`. Avoid jargon unless the audience is technical.", audience),
		fmt.Sprintf("**Clarity of Objective**: Make the purpose ('%s') clear early on. What should the audience know or do after receiving the message?", objective),
		"**Structure**: Use a logical flow (e.g., Intro, Key Points, Supporting Details, Call to Action/Conclusion). Use headings or bullet points for readability.",
		fmt.Sprintf("**Value Proposition**: If applicable (%s often involves persuasion), clearly articulate the 'what's in it for them' for the `%s`.", objective, audience),
		"**Conciseness**: Remove redundant words or phrases. Be direct and to the point, respecting the audience's time.",
		"**Call to Action (CTA)**: If the objective requires action ('{objective}'), make the CTA specific, clear, and easy to follow.",
		fmt.Sprintf("**Tone**: Match the tone to the audience (`%s`) and objective ('%s'). (e.g., Formal for executives, encouraging for team updates).", audience, objective),
		"**Supporting Evidence**: If making claims, briefly mention supporting data or examples where appropriate.",
		fmt.Sprintf("**Personalization**: Consider if personalization (e.g., using names, referencing specific context) is possible and appropriate for `%s`.", audience),
	}

	var b strings.Builder
	b.WriteString("Communication Optimization Suggestions:\n\n")
	fmt.Fprintf(&b, "**Target Audience**: %s\n", audience)
	fmt.Fprintf(&b, "**Communication Objective**: %s\n", objective)
	fmt.Fprintf(&b, "**Original Message Context**: %s...\n\n", tools.Truncate(req.Message, messagePreviewLength))
	b.WriteString("**Recommended Enhancements**:\n")
	for i, e := range enhancements {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + e)
	}
	fmt.Fprintf(&b, "\n\n**Final Check**: Review the message from the perspective of `%s`. Does it achieve the '%s' effectively?", audience, objective)
	return b.String(), nil
}

func (t *Tool) parse(input string) (*Request, error) {
	result, err := validation.ValidateJSON(input, inputSchema())
	if err != nil {
		return nil, tools.NewInputError(t.ID(),
			fmt.Sprintf("Error: Invalid JSON received by Communication Optimization Tool. Input started with: %s...",
				tools.Truncate(input, tools.InputPreviewLength)),
			input, err)
	}
	if !result.Valid {
		return nil, tools.NewInputError(t.ID(),
			fmt.Sprintf("Error processing input in Communication Optimization Tool: %s",
				strings.Join(result.GetErrorMessages(), "; ")),
			input, nil)
	}

	var raw request
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		return nil, tools.NewInputError(t.ID(),
			fmt.Sprintf("Error processing input in Communication Optimization Tool: %s", err.Error()),
			input, err)
	}

	req := &Request{Audience: defaultAudience, Message: defaultMessage, Objective: defaultObjective}
	if raw.Audience != nil {
		req.Audience = *raw.Audience
	}
	if raw.Message != nil {
		req.Message = *raw.Message
	}
	if raw.Objective != nil {
		req.Objective = *raw.Objective
	}
	return req, nil
}
