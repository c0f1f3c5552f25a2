package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrInvalidMaxAttempts is returned when RetryWithBackoff is given no attempts
var ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

// RetryWithBackoff retries operation while it returns a transient error,
// doubling baseDelay after each failed attempt. Permanent errors and context
// cancellation end the loop immediately
func RetryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("embedding_retry_succeeded", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !IsTransient(lastErr) || attempt == maxAttempts {
			break
		}

		slog.Debug("embedding_retry_scheduled",
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay),
			slog.String("error", lastErr.Error()))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}

	return lastErr
}

// IsTransient reports whether err is a rate limit or temporary outage worth retrying
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests ||
			se.Code == http.StatusServiceUnavailable ||
			se.Code == http.StatusBadGateway
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.ResourceExhausted, codes.Unavailable:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}

// retryingEmbedder wraps an Embedder with RetryWithBackoff
type retryingEmbedder struct {
	inner       Embedder
	maxAttempts int
	baseDelay   time.Duration
}

// WithRetry wraps embedder so transient failures are retried up to maxAttempts times in total
func WithRetry(embedder Embedder, maxAttempts int, baseDelay time.Duration) Embedder {
	if maxAttempts <= 1 {
		return embedder
	}
	return &retryingEmbedder{inner: embedder, maxAttempts: maxAttempts, baseDelay: baseDelay}
}

func (r *retryingEmbedder) Embed(ctx context.Context, text string, taskType TaskType) ([]float32, error) {
	var vec []float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vec, err = r.inner.Embed(ctx, text, taskType)
		return err
	}, r.maxAttempts, r.baseDelay)
	if err != nil {
		return nil, fmt.Errorf("embed after retries: %w", err)
	}
	return vec, nil
}

func (r *retryingEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType TaskType) ([][]float32, error) {
	var vecs [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vecs, err = r.inner.EmbedBatch(ctx, texts, taskType)
		return err
	}, r.maxAttempts, r.baseDelay)
	if err != nil {
		return nil, fmt.Errorf("embed batch after retries: %w", err)
	}
	return vecs, nil
}
