package crew

import (
	"context"
	"errors"
	"sync"
	"testing"

	"research-crew/internal/tools"

	"github.com/stretchr/testify/require"
)

// stubTool returns a fixed text and records every input it receives.
type stubTool struct {
	id, name string
	output   string
	err      error

	mu     sync.Mutex
	inputs []string
}

func (s *stubTool) ID() string          { return s.id }
func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub " + s.id }

func (s *stubTool) Execute(_ context.Context, input string) (string, error) {
	s.mu.Lock()
	s.inputs = append(s.inputs, input)
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

func (s *stubTool) Inputs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.inputs...)
}

var toolNames = map[string]string{
	tools.IDWebSearch:                 "Advanced Research Tool",
	tools.IDMarketAnalysis:            "Market Analysis Tool",
	tools.IDSentimentAnalysis:         "Sentiment Analysis Tool",
	tools.IDStrategicPlanning:         "Strategic Planning Tool",
	tools.IDCommunicationOptimization: "Communication Optimization Tool",
	tools.IDKnowledgeBase:             "Knowledge Base Tool",
}

// stubSet builds one stub per built-in tool ID, answering "<id> output".
func stubSet(t *testing.T, failing ...string) (*tools.Set, map[string]*stubTool) {
	t.Helper()
	fail := map[string]bool{}
	for _, id := range failing {
		fail[id] = true
	}

	stubs := map[string]*stubTool{}
	var all []tools.Tool
	for id, name := range toolNames {
		s := &stubTool{id: id, name: name, output: id + " output"}
		if fail[id] {
			s.err = errors.New(id + " unavailable")
		}
		stubs[id] = s
		all = append(all, s)
	}
	set, err := tools.NewSet(all...)
	require.NoError(t, err)
	return set, stubs
}
