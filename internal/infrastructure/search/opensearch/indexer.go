package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/feature_aggregator"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// DefaultIndex holds one document per analysed DPR.
const DefaultIndex = "dpr-documents"

var ErrDocumentNotFound = errors.New(errors.ErrCodeNotFound, "document not found")

// Indexer writes SearchMetadata documents keyed by document id.
type Indexer struct {
	client *Client
	index  string
	logger logging.Logger
}

func NewIndexer(client *Client, index string, logger logging.Logger) *Indexer {
	if index == "" {
		index = DefaultIndex
	}
	return &Indexer{client: client, index: index, logger: logging.OrNop(logger)}
}

// Index returns the index name.
func (i *Indexer) Index() string { return i.index }

// EnsureIndex creates the index with DocumentMapping when it is missing.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := i.indexExists(ctx)
	if err != nil || exists {
		return err
	}
	body, err := json.Marshal(DocumentMapping())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal index mapping")
	}
	resp, err := opensearchapi.IndicesCreateRequest{Index: i.index, Body: bytes.NewReader(body)}.Do(ctx, i.client.client)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeIndexFailed, "create index request failed")
	}
	defer resp.Body.Close()
	// A concurrent creator wins the race; that is fine.
	if resp.IsError() && !strings.Contains(readBody(resp.Body), "resource_already_exists_exception") {
		return errors.Newf(errors.ErrCodeIndexFailed, "create index %s: status %d", i.index, resp.StatusCode)
	}
	i.logger.Info("Index created", logging.String("index", i.index))
	return nil
}

func (i *Indexer) indexExists(ctx context.Context) (bool, error) {
	resp, err := opensearchapi.IndicesExistsRequest{Index: []string{i.index}}.Do(ctx, i.client.client)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeIndexFailed, "failed to check index existence")
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, errors.Newf(errors.ErrCodeIndexFailed, "index exists check returned %d", resp.StatusCode)
	}
}

// IndexMetadata upserts the document for md.DocumentID.
func (i *Indexer) IndexMetadata(ctx context.Context, md *feature_aggregator.SearchMetadata) error {
	if md == nil || md.DocumentID == "" {
		return errors.New(errors.ErrCodeValidation, "document id is required")
	}
	body, err := json.Marshal(md.ToDocument())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal document")
	}
	resp, err := opensearchapi.IndexRequest{
		Index:      i.index,
		DocumentID: md.DocumentID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, i.client.client)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeIndexFailed, "index request failed")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return errors.Newf(errors.ErrCodeIndexFailed, "index document %s: status %d: %s", md.DocumentID, resp.StatusCode, readBody(resp.Body))
	}
	i.logger.Debug("Document indexed", logging.String("index", i.index), logging.String("document_id", md.DocumentID))
	return nil
}

// DeleteDocument removes a document. A missing document is ErrDocumentNotFound.
func (i *Indexer) DeleteDocument(ctx context.Context, documentID string) error {
	resp, err := opensearchapi.DeleteRequest{Index: i.index, DocumentID: documentID}.Do(ctx, i.client.client)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeIndexFailed, "delete request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrDocumentNotFound
	}
	if resp.IsError() {
		return errors.Newf(errors.ErrCodeIndexFailed, "delete document %s: status %d", documentID, resp.StatusCode)
	}
	return nil
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	return string(b)
}

// DocumentMapping is the index definition for SearchMetadata documents.
func DocumentMapping() map[string]any {
	keyword := map[string]any{"type": "keyword"}
	return map[string]any{
		"settings": map[string]any{
			"number_of_shards":   1,
			"number_of_replicas": 1,
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"document_id":          keyword,
				"summary":              map[string]any{"type": "text"},
				"keywords":             keyword,
				"tags":                 keyword,
				"section_types":        keyword,
				"entity_counts":        map[string]any{"type": "object"},
				"states":               keyword,
				"districts":            keyword,
				"locations":            map[string]any{"type": "geo_point"},
				"resource_totals":      map[string]any{"type": "object", "enabled": false},
				"overall_score":        map[string]any{"type": "float"},
				"completeness_percent": map[string]any{"type": "float"},
				"missing_sections":     keyword,
				"checklist_version":    keyword,
				"total_cost":           map[string]any{"type": "double"},
				"currency":             keyword,
				"start_date":           map[string]any{"type": "date", "format": "yyyy-MM-dd"},
				"end_date":             map[string]any{"type": "date", "format": "yyyy-MM-dd"},
				"duration_months":      map[string]any{"type": "float"},
			},
		},
	}
}

//Personal.AI order the ending
