package knowledge

// Entry is one topic of the catalog.
type Entry struct {
	Topic string
	Text  string
}

// Category groups topics under a top-level key.
type Category struct {
	Name    string
	Entries []Entry
}

// catalog is scanned in declaration order; ties keep the earliest entry.
var catalog = []Category{
	{
		Name: "research_frameworks",
		Entries: []Entry{
			{
				Topic: "competitive_analysis",
				Text: "Framework for competitive analysis:\n" +
					"1. Identify key competitors (direct, indirect, potential).\n" +
					"2. Analyze their product/service offerings (features, quality, innovation).\n" +
					"3. Evaluate pricing strategies and business models.\n" +
					"4. Assess market positioning, branding, and messaging.\n" +
					"5. Review strengths, weaknesses, market share, and customer reviews.\n" +
					"6. Identify opportunities for differentiation and potential threats they pose.",
			},
			{
				Topic: "stakeholder_mapping",
				Text: "Framework for stakeholder mapping:\n" +
					"1. Identify all relevant stakeholders (internal/external, e.g., execs, users, partners, regulators).\n" +
					"2. Categorize by influence (high/low) and interest (high/low).\n" +
					"3. Determine their key interests, motivations, and potential concerns.\n" +
					"4. Map relationships and potential conflicts between stakeholders.\n" +
					"5. Identify potential champions, blockers, and neutral parties.\n" +
					"6. Develop tailored engagement and communication strategies for each key stakeholder group.",
			},
		},
	},
	{
		Name: "strategic_models",
		Entries: []Entry{
			{
				Topic: "swot_analysis",
				Text: "SWOT Analysis Framework:\n" +
					"- Strengths: Internal capabilities, resources, and advantages (e.g., brand reputation, skilled workforce, IP).\n" +
					"- Weaknesses: Internal limitations and areas for improvement (e.g., outdated tech, lack of resources, process inefficiencies).\n" +
					"- Opportunities: External factors that can be leveraged (e.g., market growth, new tech, changing regulations, competitor weaknesses).\n" +
					"- Threats: External factors that pose risks (e.g., new competitors, economic downturns, changing consumer preferences, regulatory changes).",
			},
			{
				Topic: "value_proposition",
				Text: "Value Proposition Canvas Components:\n" +
					"1. Customer Segment(s): Who are you creating value for?\n" +
					"2. Customer Jobs: What tasks/problems are customers trying to solve?\n" +
					"3. Pains: What negative outcomes/risks do customers face?\n" +
					"4. Gains: What outcomes/benefits do customers desire?\n" +
					"5. Products/Services: What do you offer to help with jobs, pains, gains?\n" +
					"6. Pain Relievers: How does your offering alleviate customer pains?\n" +
					"7. Gain Creators: How does your offering create customer gains?\n" +
					"Fit: Ensure strong alignment between customer profile and value map.",
			},
		},
	},
	{
		Name: "communication_guidelines",
		Entries: []Entry{
			{
				Topic: "stakeholder_messaging",
				Text: "Tailoring Messages for Stakeholders:\n" +
					"1. C-Level Executives: Focus on strategic impact, ROI, market position, competitive advantage, risk management. Keep it concise and high-level.\n" +
					"2. Directors/VPs: Emphasize operational efficiency, departmental goals, cross-functional benefits, resource allocation, team performance.\n" +
					"3. Managers: Highlight implementation details, team impact, workflow improvements, required resources, timelines, training needs.\n" +
					"4. End Users/Employees: Showcase ease of use, individual productivity gains, time savings, required changes to daily tasks, support resources.\n" +
					"5. Financial Stakeholders (Investors, Finance Dept): Stress financial metrics (revenue, cost savings, ROI, profitability), risk analysis, market potential.",
			},
			{
				Topic: "objection_handling",
				Text: "Framework for Handling Objections (LAARC/LAER):\n" +
					"1. Listen: Actively listen to understand the full objection without interrupting.\n" +
					"2. Acknowledge/Validate: Show empathy and validate their concern ('I understand why you'd ask that...', 'That's a valid point...').\n" +
					"3. Ask/Explore/Clarify: Ask probing questions to uncover the root cause or specific details ('Could you tell me more about...?', 'What specifically concerns you about...?').\n" +
					"4. Respond/Address: Provide a relevant, concise answer addressing the specific concern, using facts, data, or examples. Offer solutions if applicable.\n" +
					"5. Confirm/Check: Ensure your response has satisfied their concern ('Does that address your question?', 'How does that sound?').",
			},
		},
	},
	{
		Name: "industry_insights",
		Entries: []Entry{
			{
				Topic: "technology",
				Text:  "The technology sector is characterized by rapid innovation cycles, intense competition, talent wars, and evolving cybersecurity threats. Key trends include AI/ML adoption, cloud/edge computing synergy, increasing focus on data privacy, and the rise of sustainable tech.",
			},
			{
				Topic: "financial_services",
				Text:  "Financial services are undergoing massive digital transformation driven by fintech disruption, open banking initiatives, AI for fraud detection and personalization, and stringent regulatory oversight (e.g., Basel III/IV, AML/KYC). Customer experience and cybersecurity are paramount.",
			},
			{
				Topic: "healthcare",
				Text:  "Healthcare transformation focuses on value-based care, telehealth expansion, interoperability challenges, AI in diagnostics/drug discovery, and personalized medicine. Regulatory compliance (HIPAA) and data security remain critical considerations. Staffing shortages are also a major issue.",
			},
			{
				Topic: "retail",
				Text:  "Retail is adapting to omnichannel customer journeys, supply chain resilience challenges, the rise of social commerce, and experiential retail concepts. Key drivers include personalization via data analytics, sustainability demands, and optimizing last-mile delivery.",
			},
			{
				Topic: "fast-moving consumer goods",
				Text:  "FMCG sector focuses on brand building, supply chain efficiency, adapting to changing consumer preferences (health, sustainability), navigating retailer relationships, and leveraging e-commerce growth. Inflation and raw material costs are current pressures.",
			},
		},
	},
}

// Categories returns the catalog in scan order.
func Categories() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog)
	return out
}
