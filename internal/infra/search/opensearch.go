// Package search implements service.ProductIndex on OpenSearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"go.uber.org/fx"
)

const (
	component  = "search"
	resultSize = 10
)

// indexMapping is the body used to create the products index.
const indexMapping = `{
  "settings": {"number_of_shards": 1, "number_of_replicas": 0},
  "mappings": {
    "properties": {
      "product_id": {"type": "keyword"},
      "name": {"type": "text"},
      "description": {"type": "text"},
      "price": {"type": "float"},
      "updated_at": {"type": "date", "format": "epoch_millis"}
    }
  }
}`

// Params defines the required parameters
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New returns the OpenSearch index, or Disabled when no URL is configured
// or the client cannot be built.
func New(params Params) service.ProductIndex {
	cfg := params.Config.Search
	if cfg.URL == "" {
		return Disabled{}
	}

	idx, err := NewOpenSearchIndex(cfg.URL, cfg.Index, cfg.Timeout)
	if err != nil {
		params.Logger.Warn("OpenSearch client init failed, search disabled", slog.Any("error", err))

		return Disabled{}
	}

	return idx
}

// OpenSearchIndex talks to a single OpenSearch index.
type OpenSearchIndex struct {
	client  *opensearchapi.Client
	index   string
	timeout time.Duration
	ensured atomic.Bool
}

// NewOpenSearchIndex builds a client for url. No request is made.
func NewOpenSearchIndex(url, index string, timeout time.Duration) (*OpenSearchIndex, error) {
	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses:  []string{url},
			MaxRetries: 1,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "create opensearch client")
	}

	return &OpenSearchIndex{
		client:  client,
		index:   index,
		timeout: timeout,
	}, nil
}

type searchSource struct {
	ProductID   string   `json:"product_id"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

// Search runs a multi_match query on name (boosted) and description.
// An empty query returns no results without contacting the backend.
func (s *OpenSearchIndex) Search(ctx context.Context, query string) ([]entity.Product, error) {
	if query == "" {
		return []entity.Product{}, nil
	}

	body, err := json.Marshal(map[string]any{
		"size": resultSize,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"name^2", "description"},
			},
		},
	})
	if err != nil {
		return nil, domainerrors.NewInfraFault(component, "query", err)
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	resp, err := s.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{s.index},
		Body:    bytes.NewReader(body),
	})
	if err != nil {
		return nil, domainerrors.NewInfraFault(component, "query", err)
	}

	results := make([]entity.Product, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var src searchSource
		if err := json.Unmarshal(hit.Source, &src); err != nil {
			return nil, domainerrors.NewInfraFault(component, "decode", err)
		}

		product := entity.Product{
			ID:          src.ProductID,
			Name:        src.Name,
			Description: src.Description,
		}
		if product.ID == "" {
			product.ID = hit.ID
		}
		if src.Price != nil {
			product.Price = *src.Price
		}
		results = append(results, product)
	}

	return results, nil
}

// EnsureIndex creates the index once per process. An index that already
// exists counts as success.
func (s *OpenSearchIndex) EnsureIndex(ctx context.Context) error {
	if s.ensured.Load() {
		return nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	_, err := s.client.Indices.Create(ctx, opensearchapi.IndicesCreateReq{
		Index: s.index,
		Body:  strings.NewReader(indexMapping),
	})
	if err != nil && errorType(err) != "resource_already_exists_exception" {
		return domainerrors.NewInfraFault(component, "ensure_index", err)
	}

	s.ensured.Store(true)

	return nil
}

// Upsert indexes doc with version_type=external_gte so that an older
// version never overwrites a newer one.
func (s *OpenSearchIndex) Upsert(ctx context.Context, doc *service.ProductDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return domainerrors.NewInfraFault(component, "upsert", err)
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	_, err = s.client.Index(ctx, opensearchapi.IndexReq{
		Index:      s.index,
		DocumentID: doc.ProductID,
		Body:       bytes.NewReader(body),
		Params: opensearchapi.IndexParams{
			Version:     opensearchapi.ToPointer(int(doc.UpdatedAt)),
			VersionType: "external_gte",
		},
	})
	if err != nil {
		if statusOf(err) == http.StatusConflict {
			return service.ErrStaleDocument
		}

		return domainerrors.NewInfraFault(component, "upsert", err)
	}

	return nil
}

// Ping reports whether the cluster answers.
func (s *OpenSearchIndex) Ping(ctx context.Context) bool {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, nil)
	if err != nil {
		return false
	}

	return !resp.IsError()
}

func (s *OpenSearchIndex) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}

func statusOf(err error) int {
	var structErr *opensearch.StructError
	if errors.As(err, &structErr) {
		return structErr.Status
	}

	var stringErr *opensearch.StringError
	if errors.As(err, &stringErr) {
		return stringErr.Status
	}

	return 0
}

func errorType(err error) string {
	var structErr *opensearch.StructError
	if errors.As(err, &structErr) {
		return structErr.Err.Type
	}

	return ""
}

// Disabled is the index used when search is not configured.
type Disabled struct{}

func (Disabled) Search(context.Context, string) ([]entity.Product, error) {
	return nil, service.ErrSearchDisabled
}

func (Disabled) EnsureIndex(context.Context) error { return service.ErrSearchDisabled }

func (Disabled) Upsert(context.Context, *service.ProductDocument) error {
	return service.ErrSearchDisabled
}

func (Disabled) Ping(context.Context) bool { return false }
