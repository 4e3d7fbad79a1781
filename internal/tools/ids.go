package tools

// Tool IDs referenced by roles and stage definitions.
const (
	IDWebSearch                 = "web-search"
	IDMarketAnalysis            = "market-analysis"
	IDSentimentAnalysis         = "sentiment-analysis"
	IDStrategicPlanning         = "strategic-planning"
	IDCommunicationOptimization = "communication-optimization"
	IDKnowledgeBase             = "knowledge-base"
)
