package opensearch

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

const (
	defaultSearchSize = 20
	maxSearchSize     = 100
)

// SearchRequest filters indexed documents. Empty fields do not filter.
type SearchRequest struct {
	Text     string   `json:"text,omitempty"`
	States   []string `json:"states,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	MinScore float64  `json:"min_score,omitempty"`
	Size     int      `json:"size,omitempty"`
}

// SearchHit is one matching document.
type SearchHit struct {
	DocumentID string         `json:"document_id"`
	Score      float64        `json:"score"`
	Source     map[string]any `json:"source"`
}

// SearchResult is a page of hits with the total match count.
type SearchResult struct {
	Total int64       `json:"total"`
	Hits  []SearchHit `json:"hits"`
}

// Searcher queries the document index.
type Searcher struct {
	client *Client
	index  string
	logger logging.Logger
}

func NewSearcher(client *Client, index string, logger logging.Logger) *Searcher {
	if index == "" {
		index = DefaultIndex
	}
	return &Searcher{client: client, index: index, logger: logging.OrNop(logger)}
}

// Search runs req. Text matches summary and keywords; the other fields are
// exact filters.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	body, err := json.Marshal(buildQuery(req))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal query")
	}
	resp, err := opensearchapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.client.client)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "search request failed")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, errors.Newf(errors.ErrCodeExternalService, "search returned %d: %s", resp.StatusCode, readBody(resp.Body))
	}

	var raw struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string         `json:"_id"`
				Score  float64        `json:"_score"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode search response")
	}
	out := &SearchResult{Total: raw.Hits.Total.Value, Hits: make([]SearchHit, 0, len(raw.Hits.Hits))}
	for _, h := range raw.Hits.Hits {
		out.Hits = append(out.Hits, SearchHit{DocumentID: h.ID, Score: h.Score, Source: h.Source})
	}
	s.logger.Debug("search completed", logging.Int64("total", out.Total), logging.Int("returned", len(out.Hits)))
	return out, nil
}

func buildQuery(req SearchRequest) map[string]any {
	size := req.Size
	if size <= 0 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}

	var filters []any
	if len(req.States) > 0 {
		filters = append(filters, map[string]any{"terms": map[string]any{"states": req.States}})
	}
	for _, tag := range req.Tags {
		filters = append(filters, map[string]any{"term": map[string]any{"tags": tag}})
	}
	if req.MinScore > 0 {
		filters = append(filters, map[string]any{"range": map[string]any{"overall_score": map[string]any{"gte": req.MinScore}}})
	}

	boolQ := map[string]any{}
	if req.Text != "" {
		boolQ["must"] = []any{map[string]any{"multi_match": map[string]any{
			"query":  req.Text,
			"fields": []string{"summary", "keywords^2"},
		}}}
	} else {
		boolQ["must"] = []any{map[string]any{"match_all": map[string]any{}}}
	}
	if len(filters) > 0 {
		boolQ["filter"] = filters
	}
	return map[string]any{
		"size":  size,
		"query": map[string]any{"bool": boolQ},
		"sort":  []any{"_score", map[string]any{"document_id": "asc"}},
	}
}

//Personal.AI order the ending
