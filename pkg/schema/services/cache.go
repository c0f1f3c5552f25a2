package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/go-crypt/x/blake2b"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pgvector/pgvector-go"
)

// CachedEmbedder memoizes query embeddings in an LRU and, when a directory
// is configured, in a badger store that survives restarts. Document
// embeddings are passed through uncached
type CachedEmbedder struct {
	inner  Embedder
	mem    *lru.Cache[string, []float32]
	disk   *badger.DB
	logger *slog.Logger
}

// badgerLogger adapts slog to badger.Logger
type badgerLogger struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (l *badgerLogger) Errorf(msg string, items ...any) {
	l.logger.Error(fmt.Sprintf(msg, items...))
}

func (l *badgerLogger) Warningf(msg string, items ...any) {
	l.logger.Warn(fmt.Sprintf(msg, items...))
}

func (l *badgerLogger) Infof(msg string, items ...any) {
	l.logger.Debug(fmt.Sprintf(msg, items...))
}

func (l *badgerLogger) Debugf(msg string, items ...any) {
	l.logger.Debug(fmt.Sprintf(msg, items...))
}

// NewCachedEmbedder wraps inner with a cache of size entries. An empty dir
// keeps the cache in memory only
func NewCachedEmbedder(inner Embedder, size int, dir string) (*CachedEmbedder, error) {
	if size <= 0 {
		size = 1
	}
	mem, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}

	logger := slog.Default().With("component", "embedding-cache")
	c := &CachedEmbedder{inner: inner, mem: mem, logger: logger}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
		opts := badger.DefaultOptions(dir)
		opts.Logger = &badgerLogger{logger: logger}
		opts.Compression = options.None
		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open embedding cache: %w", err)
		}
		c.disk = db
	}
	return c, nil
}

// Close releases the persistent store
func (c *CachedEmbedder) Close() error {
	if c.disk != nil {
		return c.disk.Close()
	}
	return nil
}

// Embed returns a cached query embedding or computes and stores it
func (c *CachedEmbedder) Embed(ctx context.Context, text string, taskType TaskType) ([]float32, error) {
	if taskType != TaskTypeQuery {
		return c.inner.Embed(ctx, text, taskType)
	}

	key := cacheKey(text, taskType)
	if vec, ok := c.mem.Get(key); ok {
		return vec, nil
	}
	if vec, ok := c.load(key); ok {
		c.mem.Add(key, vec)
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text, taskType)
	if err != nil {
		return nil, err
	}
	c.mem.Add(key, vec)
	c.store(key, vec)
	return vec, nil
}

// EmbedBatch is not cached
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType TaskType) ([][]float32, error) {
	return c.inner.EmbedBatch(ctx, texts, taskType)
}

func (c *CachedEmbedder) load(key string) ([]float32, bool) {
	if c.disk == nil {
		return nil, false
	}

	var vec pgvector.Vector
	err := c.disk.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return vec.Scan(val)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("embedding_cache_read_failed", slog.String("error", err.Error()))
		return nil, false
	}
	return vec.Slice(), true
}

func (c *CachedEmbedder) store(key string, vec []float32) {
	if c.disk == nil {
		return
	}

	// Stored in pgvector's text form, e.g. [0.1,0.2]
	encoded, err := pgvector.NewVector(vec).Value()
	if err != nil {
		c.logger.Warn("embedding_cache_encode_failed", slog.String("error", err.Error()))
		return
	}
	text, _ := encoded.(string)

	err = c.disk.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(text))
	})
	if err != nil {
		c.logger.Warn("embedding_cache_write_failed", slog.String("error", err.Error()))
	}
}

// cacheKey hashes the task type and text with BLAKE2b
func cacheKey(text string, taskType TaskType) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(taskType))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "emb:" + hex.EncodeToString(h.Sum(nil))
}
