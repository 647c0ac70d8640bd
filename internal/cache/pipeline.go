package cache

import (
	"time"

	"github.com/classic-cipher-go/internal/cipher"
)

// PipelineCache caches constructed pipelines keyed by recipe name, so a
// saved recipe's keys are validated and its stages built once rather
// than on every transform request. Pipelines are immutable and safe to
// share, which is what makes caching them sound.
type PipelineCache struct {
	cache *Cache
}

// NewPipelineCache creates a pipeline cache with the given TTL and size
func NewPipelineCache(ttl time.Duration, maxSize int) *PipelineCache {
	return &PipelineCache{cache: New(ttl, maxSize)}
}

// GetOrBuild returns the cached pipeline for a recipe, constructing it
// on first use. Construction errors (invalid keys) are returned and not
// cached, so a fixed recipe is retried immediately.
func (p *PipelineCache) GetOrBuild(name string, stages []cipher.Stage, opts cipher.Options) (*cipher.Pipeline, error) {
	val, err := p.cache.GetOrLoad(name, func() (interface{}, error) {
		return cipher.NewPipeline(stages, opts)
	})
	if err != nil {
		return nil, err
	}
	return val.(*cipher.Pipeline), nil
}

// Invalidate drops the cached pipeline for one recipe. Called when a
// recipe is updated or deleted.
func (p *PipelineCache) Invalidate(name string) {
	p.cache.Delete(name)
}

// Clear drops every cached pipeline. Called when the engine defaults
// change, since cached pipelines carry the old options.
func (p *PipelineCache) Clear() {
	p.cache.Clear()
}

// Stats reports the underlying cache statistics
func (p *PipelineCache) Stats() map[string]interface{} {
	return p.cache.Stats()
}
