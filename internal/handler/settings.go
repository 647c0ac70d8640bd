package handler

import (
	"sync"
	"time"

	"github.com/classic-cipher-go/internal/cipher"
	"github.com/classic-cipher-go/internal/config"
)

// EngineSettings holds the live engine defaults. The transform handlers
// read them on every request and the config handler swaps them when an
// admin saves new values, so changes apply without a restart.
type EngineSettings struct {
	mu  sync.RWMutex
	cfg config.EngineConfig
}

// NewEngineSettings creates a settings holder from the startup config
func NewEngineSettings(cfg config.EngineConfig) *EngineSettings {
	return &EngineSettings{cfg: cfg.Normalized()}
}

// Current returns a copy of the current engine config
func (s *EngineSettings) Current() config.EngineConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update replaces the engine config
func (s *EngineSettings) Update(cfg config.EngineConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Normalized()
}

// Options returns the current config as pipeline options
func (s *EngineSettings) Options() cipher.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cipher.Options{
		Workers:   s.cfg.Workers,
		ChunkWait: time.Duration(s.cfg.ChunkWaitSeconds) * time.Second,
	}
}
