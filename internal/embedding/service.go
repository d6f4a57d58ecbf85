package embedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// ServiceOptions configures the caching embedding service.
type ServiceOptions struct {
	// CacheSize is the maximum number of embeddings retained in the LRU
	// cache. Default: 1000.
	CacheSize int
	// RateLimit caps outbound generator calls per second. Zero disables
	// rate limiting.
	RateLimit float64
	// RateBurst is the burst allowance for the rate limiter. Default: 1
	// when RateLimit is set.
	RateBurst int
}

// Normalize fills in defaults for unset options.
func (o *ServiceOptions) Normalize() {
	if o.CacheSize <= 0 {
		o.CacheSize = 1000
	}
	if o.RateLimit > 0 && o.RateBurst <= 0 {
		o.RateBurst = 1
	}
}

// CacheStats reports cache occupancy and hit counters.
type CacheStats struct {
	Size     int   `json:"size"`
	Capacity int   `json:"capacity"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

// Service fronts a Generator with an LRU cache and an optional rate
// limiter. Repeated requests for the same text under the same model are
// served from the cache, including the timestamp recorded when the
// embedding was first generated.
type Service struct {
	gen      Generator
	cache    *lru.Cache[string, types.Embedding]
	capacity int
	limiter  *rate.Limiter

	mu     sync.Mutex
	hits   int64
	misses int64
}

// NewService creates a caching service around gen.
func NewService(gen Generator, opts ServiceOptions) (*Service, error) {
	opts.Normalize()
	cache, err := lru.New[string, types.Embedding](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	s := &Service{gen: gen, cache: cache, capacity: opts.CacheSize}
	if opts.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)
	}
	return s, nil
}

// Model returns the underlying generator's model name.
func (s *Service) Model() string {
	return s.gen.Model()
}

// Generate returns the embedding for text, consulting the cache first.
// Empty input is rejected before any generator call.
func (s *Service) Generate(ctx context.Context, text string) (types.Embedding, error) {
	if text == "" {
		return types.Embedding{}, fmt.Errorf("%w: empty text", ErrEmbedding)
	}

	key := s.gen.Model() + "\x00" + text
	if emb, ok := s.cache.Get(key); ok {
		s.mu.Lock()
		s.hits++
		s.mu.Unlock()
		return emb, nil
	}
	s.mu.Lock()
	s.misses++
	s.mu.Unlock()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return types.Embedding{}, fmt.Errorf("%w: %v", ErrEmbedding, err)
		}
	}

	vec, err := s.gen.Embed(ctx, text)
	if err != nil {
		return types.Embedding{}, err
	}
	emb := types.Embedding{
		Vector:    vec,
		Dimension: len(vec),
		ModelName: s.gen.Model(),
		CreatedAt: time.Now().UTC(),
	}
	s.cache.Add(key, emb)
	return emb, nil
}

// GenerateBatch embeds every text in order. The result slice is aligned
// with the input: result[i] corresponds to texts[i]. A failure on any
// text aborts the batch.
func (s *Service) GenerateBatch(ctx context.Context, texts []string) ([]types.Embedding, error) {
	out := make([]types.Embedding, 0, len(texts))
	for i, text := range texts {
		emb, err := s.Generate(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
		out = append(out, emb)
	}
	return out, nil
}

// Stats returns a snapshot of the cache counters.
func (s *Service) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CacheStats{
		Size:     s.cache.Len(),
		Capacity: s.capacity,
		Hits:     s.hits,
		Misses:   s.misses,
	}
}
