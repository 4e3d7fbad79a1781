package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"research-crew/internal/common/errors"
	"research-crew/internal/common/logger"
	"research-crew/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type indexDocument struct {
	RunID       string    `json:"runId"`
	Target      string    `json:"target"`
	Industry    string    `json:"industry"`
	GeneratedAt time.Time `json:"generatedAt"`
	FilePath    string    `json:"filePath"`
	Content     string    `json:"content"`
}

// Index makes reports full-text searchable in Elasticsearch.
type Index struct {
	client *elasticsearch.Client
	name   string
	logger logger.Logger
}

func NewIndex(client *elasticsearch.Client, name string, log logger.Logger) *Index {
	return &Index{
		client: client,
		name:   name,
		logger: log.WithFields(map[string]interface{}{"component": "report-index", "index": name}),
	}
}

// Index stores r under its run ID.
func (i *Index) Index(ctx context.Context, r *models.Report) error {
	body, err := json.Marshal(indexDocument{
		RunID:       r.RunID,
		Target:      r.Target,
		Industry:    r.Industry,
		GeneratedAt: r.GeneratedAt,
		FilePath:    r.FilePath,
		Content:     r.Content,
	})
	if err != nil {
		return errors.NewIndexFailedError(err)
	}

	req := esapi.IndexRequest{
		Index:      i.name,
		DocumentID: r.RunID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return errors.NewIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewIndexFailedError(fmt.Errorf("index request returned %s", res.Status()))
	}

	i.logger.Info("report indexed", map[string]interface{}{"runId": r.RunID})
	return nil
}

// Search runs a full-text query over report content, target and industry.
func (i *Index) Search(ctx context.Context, text string, size int) ([]models.ReportSummary, error) {
	if size <= 0 {
		size = 10
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"target^3", "industry^2", "content"},
				"type":   "best_fields",
			},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"content": map[string]interface{}{"fragment_size": 160, "number_of_fragments": 1},
			},
		},
		"sort": []interface{}{"_score", map[string]interface{}{"generatedAt": "desc"}},
	}
	body, _ := json.Marshal(query)

	req := esapi.SearchRequest{
		Index: []string{i.name},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return nil, errors.NewIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewIndexFailedError(fmt.Errorf("search request returned %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source    indexDocument       `json:"_source"`
				Highlight map[string][]string `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewIndexFailedError(fmt.Errorf("decode search response: %w", err))
	}

	out := make([]models.ReportSummary, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		excerpt := ""
		if frags := hit.Highlight["content"]; len(frags) > 0 {
			excerpt = frags[0]
		}
		out = append(out, models.ReportSummary{
			RunID:       hit.Source.RunID,
			Target:      hit.Source.Target,
			Industry:    hit.Source.Industry,
			GeneratedAt: hit.Source.GeneratedAt,
			FilePath:    hit.Source.FilePath,
			Excerpt:     excerpt,
		})
	}
	return out, nil
}
