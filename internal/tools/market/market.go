// Package market implements the static industry market-analysis template.
package market

import (
	"context"
	"fmt"

	"research-crew/internal/tools"
)

const (
	name        = "Market Analysis Tool"
	description = "Analyzes market trends, competitor landscapes, and industry developments based on a provided industry name."
)

// Tool fills a fixed seven-point market outline with the industry name.
type Tool struct{}

func New() *Tool {
	return &Tool{}
}

func (t *Tool) ID() string          { return tools.IDMarketAnalysis }
func (t *Tool) Name() string        { return name }
func (t *Tool) Description() string { return description }

func (t *Tool) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:               t.ID(),
		Name:             name,
		Description:      description,
		InputKind:        tools.InputText,
		ReliabilityScore: 0.95,
	}
}

func (t *Tool) Execute(_ context.Context, industry string) (string, error) {
	return fmt.Sprintf("Market Analysis for the '%[1]s' Industry:\n\n"+
		"1.  **Current Growth & Size**: The %[1]s sector is experiencing [significant/moderate/slow] growth, driven by factors like [technology adoption/consumer demand shifts/regulatory changes]. Market size is estimated at [Provide estimate if known].\n"+
		"2.  **Key Technology Trends**: Dominant trends include [AI integration/automation/cloud migration/sustainability tech/etc.]. These are reshaping [operations/customer experience/product development].\n"+
		"3.  **Competitive Landscape**: Characterized by [a few dominant players/fragmentation/high competition]. Key players include [List examples if known]. Recent M&A activity [is high/moderate/low]. New entrants are focusing on [niche markets/disruptive tech].\n"+
		"4.  **Consumer Behavior Shifts**: Consumers are increasingly valuing [digital experiences/personalization/sustainability/value for money]. Brand loyalty is [strong/weakening].\n"+
		"5.  **Regulatory Environment**: Key regulations impacting the industry involve [data privacy (e.g., GDPR)/environmental standards/trade policies/safety standards]. Compliance is [a major challenge/standard practice].\n"+
		"6.  **Opportunities**: Potential growth areas lie in [emerging markets/new technologies/underserved segments/sustainability initiatives].\n"+
		"7.  **Challenges**: Major hurdles include [supply chain disruptions/talent shortages/economic uncertainty/intense competition/regulatory burdens].",
		industry), nil
}
