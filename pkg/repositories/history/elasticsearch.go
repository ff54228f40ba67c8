package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/fadedpez/blondie/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch
// archival layer
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	// RotationPeriod controls how often a fresh index is started
	RotationPeriod time.Duration
	// MaxIndices bounds how many dated indices pruning keeps; 0 keeps all
	MaxIndices int
}

// DefaultElasticsearchConfig returns a default configuration
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:            "http://localhost:9200",
		IndexPrefix:    "blondie-hands",
		RotationPeriod: 30 * 24 * time.Hour,
		MaxIndices:     12,
	}
}

// ElasticsearchRepository decorates a base Repository with hand-summary
// archival into Elasticsearch. The base repository remains the source of
// truth and carries the idempotency guarantee; indexing failures are logged
// and never fail the record.
type ElasticsearchRepository struct {
	base         Repository
	client       *elasticsearch.Client
	config       *ElasticsearchConfig
	currentIndex string
	lastRotation time.Time
}

// NewElasticsearchRepository creates the archival decorator around baseRepo
func NewElasticsearchRepository(baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating elasticsearch client: %w", err)
	}

	r := &ElasticsearchRepository{
		base:   baseRepo,
		client: client,
		config: config,
	}
	r.rotateIndexIfNeeded(time.Now())
	return r, nil
}

// rotateIndexIfNeeded switches to a fresh dated index when the rotation
// period has elapsed
func (r *ElasticsearchRepository) rotateIndexIfNeeded(now time.Time) {
	if r.currentIndex != "" && now.Sub(r.lastRotation) < r.config.RotationPeriod {
		return
	}
	r.currentIndex = fmt.Sprintf("%s-%s", r.config.IndexPrefix, now.Format("2006.01"))
	r.lastRotation = now
}

// RecordHand records through the base repository, then archives to
// Elasticsearch when the record was new
func (r *ElasticsearchRepository) RecordHand(ctx context.Context, summary *entities.HandSummary) (bool, error) {
	recorded, err := r.base.RecordHand(ctx, summary)
	if err != nil || !recorded {
		return recorded, err
	}

	if indexErr := r.index(ctx, summary); indexErr != nil {
		log.Printf("Failed to archive hand %s/%d to elasticsearch: %v",
			summary.GameID, summary.HandNumber, indexErr)
	}
	return true, nil
}

func (r *ElasticsearchRepository) index(ctx context.Context, summary *entities.HandSummary) error {
	r.rotateIndexIfNeeded(time.Now())

	body, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      r.currentIndex,
		DocumentID: fmt.Sprintf("%s-%d", summary.GameID, summary.HandNumber),
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch returned %s", res.Status())
	}
	return nil
}

// GetConfig returns the archival configuration
func (r *ElasticsearchRepository) GetConfig() *ElasticsearchConfig {
	return r.config
}

// RotateIndex forces the dated-index rotation check. The scheduler calls
// this so a quiet period still rolls over to a fresh index.
func (r *ElasticsearchRepository) RotateIndex(ctx context.Context) error {
	r.rotateIndexIfNeeded(time.Now())
	return nil
}

// PruneOldIndices deletes the oldest dated indices beyond the configured
// MaxIndices. Index names sort chronologically because the date suffix is
// zero-padded year.month.
func (r *ElasticsearchRepository) PruneOldIndices(ctx context.Context) error {
	if r.config.MaxIndices <= 0 {
		return nil
	}

	res, err := esapi.IndicesGetRequest{
		Index: []string{r.config.IndexPrefix + "-*"},
	}.Do(ctx, r.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch returned %s listing indices", res.Status())
	}

	var indexMap map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&indexMap); err != nil {
		return err
	}

	names := make([]string, 0, len(indexMap))
	for name := range indexMap {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) <= r.config.MaxIndices {
		return nil
	}
	stale := names[:len(names)-r.config.MaxIndices]

	del, err := esapi.IndicesDeleteRequest{Index: stale}.Do(ctx, r.client)
	if err != nil {
		return err
	}
	defer del.Body.Close()
	if del.IsError() {
		return fmt.Errorf("elasticsearch returned %s deleting indices", del.Status())
	}
	log.Printf("Pruned %d old hand-history indices", len(stale))
	return nil
}

// GetHandSummaries reads from the base repository
func (r *ElasticsearchRepository) GetHandSummaries(ctx context.Context, gameID string, limit int) ([]*entities.HandSummary, error) {
	return r.base.GetHandSummaries(ctx, gameID, limit)
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.base.Close()
}
