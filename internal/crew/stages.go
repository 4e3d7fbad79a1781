// internal/crew/stages.go
package crew

import (
	"fmt"

	"research-crew/internal/tools"
	"research-crew/internal/tools/communication"
	"research-crew/internal/tools/strategy"
)

const (
	StageTargetResearch           = "target-research"
	StageMarketAnalysis           = "market-analysis"
	StageStrategyDevelopment      = "strategy-development"
	StageCommunicationDevelopment = "communication-development"
	StageReflection               = "reflection"
)

// fixed returns a shaper that ignores the context.
func fixed(input string) func(PipelineContext) string {
	return func(PipelineContext) string { return input }
}

func industryQuery(c PipelineContext) string {
	return c.Field("industry", "industry")
}

// DefaultStages returns the five-stage research workflow.
func DefaultStages() []Stage {
	return []Stage{
		{
			Name: StageTargetResearch,
			Role: RoleResearchCoordinator,
			Description: "Conduct comprehensive research on the target organization: **{target_name}**, operating in the **{industry}** sector. " +
				"Focus on: \n" +
				"1. Current market position, size, and key offerings.\n" +
				"2. Recent significant developments, news, and strategic initiatives (e.g., related to '{milestone}').\n" +
				"3. Key decision-makers (especially individuals like **{key_decision_maker}** in position **{position}**) and organizational structure if possible.\n" +
				"4. Identify potential business needs, challenges (e.g., competitive pressures, operational issues), and opportunities relevant to potential partnerships or solutions.\n" +
				"Utilize the Advanced Research Tool for web searches and the Knowledge Base Tool for relevant research frameworks (like stakeholder mapping or competitive analysis) and industry context.",
			ExpectedOutput: "A detailed intelligence report summarizing findings on {target_name}, including:\n" +
				"- Organization Overview: Market standing, primary business lines.\n" +
				"- Recent Developments: Key news, strategic shifts, performance highlights.\n" +
				"- Key Stakeholders: Information on leadership and decision structure (if found).\n" +
				"- Needs & Challenges: Inferred or stated problems the organization faces.\n" +
				"- Opportunities: Potential areas for collaboration or value addition.\n" +
				"- Sources: Briefly mention key sources or types of information used.",
			PrimaryTool: tools.IDWebSearch,
			Shape: func(c PipelineContext) string {
				return fmt.Sprintf("Comprehensive research on %s (%s). Focus on market position, "+
					"recent developments (especially around '%s'), key people like %s (%s), "+
					"structure, needs, challenges, opportunities. Use knowledge base for industry context and research frameworks.",
					c.Field("target_name", "the target company"),
					c.Field("industry", "their industry"),
					c.Field("milestone", "key events"),
					c.Field("key_decision_maker", "leaders"),
					c.Field("position", "their roles"))
			},
			Consultations: []Consultation{
				{Tool: tools.IDKnowledgeBase, Shape: fixed("stakeholder mapping")},
				{Tool: tools.IDKnowledgeBase, Shape: industryQuery},
			},
		},
		{
			Name: StageMarketAnalysis,
			Role: RoleMarketResearch,
			Description: "Based on the initial research findings about {target_name}, conduct a focused analysis of the **{industry}** market landscape. " +
				"Identify: \n" +
				"1. Key market trends (technological, consumer, regulatory) impacting the sector.\n" +
				"2. The main competitive dynamics and major players.\n" +
				"3. Potential market gaps or underserved needs relevant to {target_name}'s context.\n" +
				"Use the Market Analysis Tool for structured industry overview and the Advanced Research Tool for specific competitor or trend searches if needed. Consult the Knowledge Base for general industry insights.",
			ExpectedOutput: "A concise market analysis report for the {industry} sector, relevant to {target_name}, covering:\n" +
				"- Industry Trends: Top 3-5 trends affecting the market.\n" +
				"- Competitive Landscape: Key competitors and their positioning relative to {target_name}.\n" +
				"- Market Opportunities/Gaps: Areas where {target_name} or partners could potentially capitalize.\n" +
				"- Strategic Implications: How these market factors might influence {target_name}'s strategy.",
			Upstream:    []string{StageTargetResearch},
			PrimaryTool: tools.IDMarketAnalysis,
			Shape: func(c PipelineContext) string {
				return c.Field("industry", "Fast-moving consumer goods")
			},
			Consultations: []Consultation{
				{Tool: tools.IDKnowledgeBase, Shape: industryQuery},
				{Tool: tools.IDKnowledgeBase, Shape: fixed("competitive analysis")},
			},
		},
		{
			Name: StageStrategyDevelopment,
			Role: RoleStrategicPlanning,
			Description: "Synthesize insights from the target research (Task 1) and market analysis (Task 2) " +
				"to develop a tailored engagement strategy for **{target_name}**. Define:\n" +
				"1. A clear value proposition addressing their identified needs/opportunities.\n" +
				"2. Recommended strategic objectives for engagement (e.g., partnership, sales, awareness).\n" +
				"3. An outline of the engagement approach (e.g., key phases, channels).\n" +
				"4. Potential objections and high-level response strategies.\n" +
				"Utilize the Strategic Planning Tool (provide objectives like growth, efficiency, innovation) and consult the Knowledge Base for relevant strategic models (like Value Proposition or SWOT) and objection handling frameworks.",
			ExpectedOutput: "A strategic engagement plan document for {target_name}, outlining:\n" +
				"- Tailored Value Proposition: Clearly stating the benefits offered.\n" +
				"- Strategic Objectives: What the engagement aims to achieve.\n" +
				"- Engagement Roadmap: High-level steps or phases.\n" +
				"- Positioning Statement: How to position the offering against alternatives.\n" +
				"- Objection Handling Prep: Anticipated concerns and potential responses.\n" +
				"- Success Metrics (Conceptual): How engagement success could be measured.",
			Upstream:    []string{StageTargetResearch, StageMarketAnalysis},
			PrimaryTool: tools.IDStrategicPlanning,
			Shape: func(c PipelineContext) string {
				return strategy.Request{
					OrganizationType: c.Field("industry", "Fast-moving consumer goods"),
					Objectives:       []string{"growth", "innovation", "customer_retention", "efficiency"},
					TargetInfo: fmt.Sprintf("%s, potentially engaging with %s",
						c.Field("target_name", "the target organization"),
						c.Field("key_decision_maker", "key stakeholders")),
				}.Encode()
			},
			Consultations: []Consultation{
				{Tool: tools.IDKnowledgeBase, Shape: fixed("value proposition")},
				{Tool: tools.IDKnowledgeBase, Shape: fixed("objection handling")},
			},
		},
		{
			Name: StageCommunicationDevelopment,
			Role: RoleCommunication,
			Description: "Based on the approved engagement strategy (Task 3), develop key communication materials " +
				"for initiating contact with **{target_name}**, specifically targeting stakeholders like **{key_decision_maker}** ({position}). Focus on:\n" +
				"1. Crafting an initial outreach message (e.g., email draft) that incorporates the value proposition.\n" +
				"2. Identifying key talking points aligned with the strategy.\n" +
				"3. Optimizing the message for clarity, impact, and appropriate tone for the target audience.\n" +
				"Utilize the Communication Optimization Tool (provide audience, message context, objective) and the Sentiment Analysis Tool to check tone. Consult the Knowledge Base for stakeholder messaging guidelines.",
			ExpectedOutput: "A communication package including:\n" +
				"- Draft Outreach Message: A template (e.g., email) for initial contact with {key_decision_maker}.\n" +
				"- Key Talking Points: Bullet points summarizing the core message and value.\n" +
				"- Communication Optimization Notes: Suggestions applied based on the tool's feedback.\n" +
				"- Sentiment Check: Confirmation of appropriate tone.",
			Upstream:    []string{StageStrategyDevelopment},
			PrimaryTool: tools.IDCommunicationOptimization,
			Shape: func(c PipelineContext) string {
				return communication.Request{
					Audience: fmt.Sprintf("%s (%s) at %s",
						c.Field("key_decision_maker", "Senior Leadership"),
						c.Field("position", "Decision Maker"),
						c.Field("target_name", "the target company")),
					Message: fmt.Sprintf("Initial outreach message draft based on the strategy to engage %s "+
						"regarding potential collaboration or solutions addressing identified needs/opportunities "+
						"in the %s sector.",
						c.Field("target_name", "the target company"),
						c.Field("industry", "industry")),
					Objective: "Initiate engagement and secure a brief discovery meeting",
				}.Encode()
			},
			Consultations: []Consultation{
				{Tool: tools.IDSentimentAnalysis, Shape: func(c PipelineContext) string {
					return c.Output(StageStrategyDevelopment)
				}},
				{Tool: tools.IDKnowledgeBase, Shape: fixed("stakeholder messaging")},
			},
		},
		{
			Name: StageReflection,
			Role: RoleStrategicPlanning,
			Description: "Critically review the developed engagement strategy (Task 3) and initial communication plan (Task 4) for **{target_name}**. " +
				"Identify potential weaknesses, risks, or blind spots. Consider:\n" +
				"1. Are the underlying assumptions valid?\n" +
				"2. What are potential competitor reactions?\n" +
				"3. Are there implementation challenges not fully addressed?\n" +
				"4. Could alternative approaches be more effective?\n" +
				"Use the Strategic Planning Tool (with objectives like risk_assessment, improvement, contingency_planning) and the Knowledge Base to apply critical thinking frameworks (like SWOT analysis on the strategy itself).",
			ExpectedOutput: "A concise strategic reflection memo including:\n" +
				"- Assumption Check: Evaluation of key assumptions made in the strategy.\n" +
				"- Identified Risks/Weaknesses: Potential pitfalls or areas needing strengthening.\n" +
				"- Alternative Considerations: Brief mention of other possible approaches.\n" +
				"- Refinement Recommendations: Specific suggestions to improve the strategy or communication plan.\n" +
				"- Contingency Notes: High-level thoughts on 'what if' scenarios.",
			Upstream:    []string{StageStrategyDevelopment, StageCommunicationDevelopment},
			PrimaryTool: tools.IDStrategicPlanning,
			Shape: func(c PipelineContext) string {
				return strategy.Request{
					OrganizationType: c.Field("industry", "Strategic Planning Process"),
					Objectives:       []string{"risk_assessment", "improvement", "contingency_planning"},
					TargetInfo:       "the engagement strategy developed for " + c.Field("target_name", "the target"),
				}.Encode()
			},
			Consultations: []Consultation{
				{Tool: tools.IDKnowledgeBase, Shape: fixed("swot analysis")},
			},
		},
	}
}
