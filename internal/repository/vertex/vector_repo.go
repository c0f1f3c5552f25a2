package vertex

import (
	"context"
	"fmt"
	"strconv"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	aiplatformpb "cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/repository"
	"google.golang.org/api/option"
)

// Ensure VectorSearchRepository implements repository.VectorSearchRepository
var _ repository.VectorSearchRepository = (*VectorSearchRepository)(nil)

// Config holds Vertex AI Vector Search configuration
type Config struct {
	ProjectID            string // GCP project ID
	Location             string // e.g., "us-central1"
	IndexEndpointID      string // Deployed index endpoint ID
	DeployedIndexID      string // The deployed index ID within the endpoint
	PublicEndpointDomain string // Public endpoint domain for queries (e.g., "123.us-central1-456.vdb.vertexai.goog")
}

// Complete reports whether every identifier needed to address the index is set
func (c Config) Complete() bool {
	return c.ProjectID != "" && c.Location != "" && c.IndexEndpointID != "" && c.DeployedIndexID != ""
}

var _ neighborFinder = (*aiplatform.MatchClient)(nil)

// neighborFinder is the subset of the match client used here
type neighborFinder interface {
	FindNeighbors(ctx context.Context, req *aiplatformpb.FindNeighborsRequest, opts ...gax.CallOption) (*aiplatformpb.FindNeighborsResponse, error)
}

// VectorSearchRepository is the managed-index backend. Datapoint ids in the
// index are page ids rendered in base 10
type VectorSearchRepository struct {
	config      Config
	matchClient *aiplatform.MatchClient
	finder      neighborFinder
}

// NewVectorSearchRepository creates a new Vertex AI vector search repository
func NewVectorSearchRepository(ctx context.Context, config Config) (*VectorSearchRepository, error) {
	if !config.Complete() {
		return nil, fmt.Errorf("vertex index config incomplete: project, location, endpoint and deployed index are required")
	}

	// For public endpoints, use the public domain; otherwise use regional endpoint
	var endpoint string
	if config.PublicEndpointDomain != "" {
		endpoint = fmt.Sprintf("%s:443", config.PublicEndpointDomain)
	} else {
		endpoint = fmt.Sprintf("%s-aiplatform.googleapis.com:443", config.Location)
	}

	matchClient, err := aiplatform.NewMatchClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("create match client: %w", err)
	}

	return &VectorSearchRepository{
		config:      config,
		matchClient: matchClient,
		finder:      matchClient,
	}, nil
}

// Close closes the Vertex AI client
func (r *VectorSearchRepository) Close() error {
	if r.matchClient != nil {
		return r.matchClient.Close()
	}
	return nil
}

// IsAvailable reports whether the index is configured and a client is open
func (r *VectorSearchRepository) IsAvailable() bool {
	return r.finder != nil && r.config.Complete()
}

// SearchPagesByEmbedding queries the deployed index for the nearest pages
func (r *VectorSearchRepository) SearchPagesByEmbedding(ctx context.Context, embedding []float32, topK int) ([]models.VectorCandidate, error) {
	// Build the index endpoint resource name
	indexEndpoint := fmt.Sprintf(
		"projects/%s/locations/%s/indexEndpoints/%s",
		r.config.ProjectID,
		r.config.Location,
		r.config.IndexEndpointID,
	)

	req := &aiplatformpb.FindNeighborsRequest{
		IndexEndpoint:   indexEndpoint,
		DeployedIndexId: r.config.DeployedIndexID,
		Queries: []*aiplatformpb.FindNeighborsRequest_Query{
			{
				Datapoint: &aiplatformpb.IndexDatapoint{
					FeatureVector: embedding,
				},
				NeighborCount: int32(topK),
			},
		},
	}

	resp, err := r.finder.FindNeighbors(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("find neighbors: %w", err)
	}

	return candidatesFromResponse(resp)
}

// candidatesFromResponse converts neighbors into candidates in index order.
// The index is built with cosine distance, so similarity = 1 - distance
func candidatesFromResponse(resp *aiplatformpb.FindNeighborsResponse) ([]models.VectorCandidate, error) {
	if resp == nil || len(resp.NearestNeighbors) == 0 || len(resp.NearestNeighbors[0].Neighbors) == 0 {
		return []models.VectorCandidate{}, nil
	}

	neighbors := resp.NearestNeighbors[0].Neighbors
	results := make([]models.VectorCandidate, 0, len(neighbors))
	for _, neighbor := range neighbors {
		id, err := strconv.ParseInt(neighbor.GetDatapoint().GetDatapointId(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse datapoint id %q: %w", neighbor.GetDatapoint().GetDatapointId(), err)
		}
		results = append(results, models.VectorCandidate{
			PageID: id,
			Score:  1 - neighbor.GetDistance(),
		})
	}
	return results, nil
}
