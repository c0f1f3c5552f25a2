package services

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/maktaba-search-api/pkg/schema/config"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	vertexBatchLimit = 250
)

// VertexEmbedder implements Embedder using Google Cloud Vertex AI
type VertexEmbedder struct {
	cfg      *config.Config
	client   *aiplatform.PredictionClient
	endpoint string
}

// NewVertexEmbedder creates a new Vertex AI embedder
func NewVertexEmbedder(ctx context.Context, cfg *config.Config) (*VertexEmbedder, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT_ID is required for Vertex AI embeddings")
	}

	clientEndpoint := fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.GCPLocation)
	client, err := aiplatform.NewPredictionClient(ctx, option.WithEndpoint(clientEndpoint))
	if err != nil {
		return nil, fmt.Errorf("create Vertex AI client: %w", err)
	}

	endpoint := fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s",
		cfg.GCPProjectID, cfg.GCPLocation, cfg.VertexModel)

	return &VertexEmbedder{
		cfg:      cfg,
		client:   client,
		endpoint: endpoint,
	}, nil
}

// Close closes the Vertex AI client
func (e *VertexEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Embed generates an embedding for a single text
func (e *VertexEmbedder) Embed(ctx context.Context, text string, taskType TaskType) ([]float32, error) {
	embeddings, err := e.EmbedBatch(ctx, []string{text}, taskType)
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts, splitting requests at the Vertex batch limit
func (e *VertexEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType TaskType) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	all := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += vertexBatchLimit {
		end := min(i+vertexBatchLimit, len(texts))
		batch, err := e.predict(ctx, texts[i:end], taskType)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
	}
	return all, nil
}

func (e *VertexEmbedder) predict(ctx context.Context, texts []string, taskType TaskType) ([][]float32, error) {
	instances := make([]*structpb.Value, len(texts))
	for i, text := range texts {
		instance, err := structpb.NewStruct(map[string]interface{}{
			"content":   text,
			"task_type": string(taskType),
		})
		if err != nil {
			return nil, fmt.Errorf("create instance: %w", err)
		}
		instances[i] = structpb.NewStructValue(instance)
	}

	params := map[string]interface{}{"autoTruncate": true}
	if e.cfg.EmbeddingDimensions > 0 {
		params["outputDimensionality"] = e.cfg.EmbeddingDimensions
	}
	parameters, err := structpb.NewValue(params)
	if err != nil {
		return nil, fmt.Errorf("create parameters: %w", err)
	}

	resp, err := e.client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:   e.endpoint,
		Instances:  instances,
		Parameters: parameters,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex AI prediction: %w", err)
	}

	embeddings, err := parsePredictions(resp.Predictions)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("vertex AI returned %d embeddings for %d texts", len(embeddings), len(texts))
	}
	if want := e.cfg.EmbeddingDimensions; want > 0 {
		for i, emb := range embeddings {
			if len(emb) != want {
				return nil, fmt.Errorf("embedding %d has %d dimensions, want %d", i, len(emb), want)
			}
		}
	}
	return embeddings, nil
}

// parsePredictions extracts embeddings.values from each prediction struct
func parsePredictions(predictions []*structpb.Value) ([][]float32, error) {
	embeddings := make([][]float32, len(predictions))
	for i, prediction := range predictions {
		predStruct := prediction.GetStructValue()
		if predStruct == nil {
			return nil, fmt.Errorf("unexpected prediction format at index %d", i)
		}

		embStruct := predStruct.GetFields()["embeddings"].GetStructValue()
		if embStruct == nil {
			return nil, fmt.Errorf("no embeddings field in prediction at index %d", i)
		}

		valuesList := embStruct.GetFields()["values"].GetListValue()
		if valuesList == nil {
			return nil, fmt.Errorf("no values list in embeddings at index %d", i)
		}

		embedding := make([]float32, len(valuesList.Values))
		for j, v := range valuesList.Values {
			embedding[j] = float32(v.GetNumberValue())
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}
