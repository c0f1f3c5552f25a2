package vertex

import (
	"context"
	"fmt"
	"strconv"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	aiplatformpb "cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/maktaba-search-api/internal/repository"
	"google.golang.org/api/option"
)

// BookNamespace is the restrict namespace holding a page's work id
const BookNamespace = "book"

// DataPoint is one page vector in the batch import format of the index
type DataPoint struct {
	ID        string     `json:"id"`
	Embedding []float32  `json:"embedding"`
	Restricts []Restrict `json:"restricts,omitempty"`
}

// Restrict defines a token-based filter
type Restrict struct {
	Namespace string   `json:"namespace"`
	Allow     []string `json:"allow"`
}

// Proto converts the data point for the streaming upsert API
func (d DataPoint) Proto() *aiplatformpb.IndexDatapoint {
	dp := &aiplatformpb.IndexDatapoint{
		DatapointId:   d.ID,
		FeatureVector: d.Embedding,
	}
	for _, r := range d.Restricts {
		dp.Restricts = append(dp.Restricts, &aiplatformpb.IndexDatapoint_Restriction{
			Namespace: r.Namespace,
			AllowList: r.Allow,
		})
	}
	return dp
}

// WalkDataPoints pages through every stored embedding in batches, attaches
// each page's work id as a restrict and hands the batch to fn. Embeddings
// whose page no longer exists are skipped
func WalkDataPoints(
	ctx context.Context,
	source repository.EmbeddingSource,
	pages repository.PageLookup,
	batchSize int,
	fn func([]DataPoint) error,
) (int, error) {
	if batchSize < 1 {
		batchSize = 100
	}
	total := 0
	for offset := 0; ; offset += batchSize {
		batch, err := source.GetPageEmbeddingsBatch(ctx, offset, batchSize)
		if err != nil {
			return total, fmt.Errorf("load embeddings at offset %d: %w", offset, err)
		}
		if len(batch) == 0 {
			return total, nil
		}

		ids := make([]int64, len(batch))
		for i, e := range batch {
			ids[i] = e.PageID
		}
		found, err := pages.GetPagesByIDs(ctx, ids)
		if err != nil {
			return total, fmt.Errorf("lookup pages at offset %d: %w", offset, err)
		}
		books := make(map[int64]int64, len(found))
		for _, p := range found {
			books[p.ID] = p.BookID
		}

		points := make([]DataPoint, 0, len(batch))
		for _, e := range batch {
			bookID, ok := books[e.PageID]
			if !ok {
				continue
			}
			points = append(points, DataPoint{
				ID:        strconv.FormatInt(e.PageID, 10),
				Embedding: e.Embedding,
				Restricts: []Restrict{{Namespace: BookNamespace, Allow: []string{strconv.FormatInt(bookID, 10)}}},
			})
		}
		if len(points) > 0 {
			if err := fn(points); err != nil {
				return total, err
			}
			total += len(points)
		}
		if len(batch) < batchSize {
			return total, nil
		}
	}
}

// IndexUpserter streams data points into an index
type IndexUpserter struct {
	client    *aiplatform.IndexClient
	indexName string
}

// NewIndexUpserter connects to the regional index service
func NewIndexUpserter(ctx context.Context, projectID, location, indexID string) (*IndexUpserter, error) {
	endpoint := fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)
	client, err := aiplatform.NewIndexClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("create index client: %w", err)
	}
	return &IndexUpserter{
		client:    client,
		indexName: fmt.Sprintf("projects/%s/locations/%s/indexes/%s", projectID, location, indexID),
	}, nil
}

// IndexName returns the full resource name of the index
func (u *IndexUpserter) IndexName() string {
	return u.indexName
}

// Upsert writes one batch of data points
func (u *IndexUpserter) Upsert(ctx context.Context, points []DataPoint) error {
	req := &aiplatformpb.UpsertDatapointsRequest{
		Index:      u.indexName,
		Datapoints: make([]*aiplatformpb.IndexDatapoint, 0, len(points)),
	}
	for _, p := range points {
		req.Datapoints = append(req.Datapoints, p.Proto())
	}
	if _, err := u.client.UpsertDatapoints(ctx, req); err != nil {
		return fmt.Errorf("upsert datapoints: %w", err)
	}
	return nil
}

// Close closes the index client
func (u *IndexUpserter) Close() error {
	return u.client.Close()
}
