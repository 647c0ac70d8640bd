package cipher

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Stage is the configuration form of one pipeline entry: a cipher kind
// plus the raw key it is constructed from. This is the shape recipes,
// the API and the command line all speak.
type Stage struct {
	Kind Kind   `json:"kind"`
	Key  string `json:"key"`
}

// Options carries the execution knobs threaded into a pipeline at
// construction. The engine holds no process-wide state; every pipeline
// owns its own copy.
type Options struct {
	// Workers is the chunk count for parallel Caesar stages.
	Workers int
	// ChunkWait bounds the join of one parallel stage's chunk tasks;
	// when it passes, the run fails with ErrChunkWait.
	ChunkWait time.Duration
}

const (
	DefaultWorkers   = 4
	DefaultChunkWait = 30 * time.Second
)

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.ChunkWait <= 0 {
		o.ChunkWait = DefaultChunkWait
	}
	return o
}

// Pipeline is an ordered sequence of constructed ciphers. It is
// immutable after construction and safe for concurrent use, so one
// pipeline may serve many runs.
type Pipeline struct {
	stages  []Cipher
	workers int
	wait    time.Duration
}

// NewPipeline constructs every stage through the registry. The first
// invalid stage aborts construction with its position and kind wrapped
// around the key error; a partial pipeline is never returned and never
// executed.
func NewPipeline(stages []Stage, opts Options) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, errors.New("pipeline needs at least one stage")
	}
	opts = opts.withDefaults()
	built := make([]Cipher, len(stages))
	for i, s := range stages {
		c, err := New(s.Kind, s.Key)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", i, err)
		}
		built[i] = c
	}
	return &Pipeline{stages: built, workers: opts.Workers, wait: opts.ChunkWait}, nil
}

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// Kinds returns the stage kinds in pipeline order.
func (p *Pipeline) Kinds() []Kind {
	kinds := make([]Kind, len(p.stages))
	for i, c := range p.stages {
		kinds[i] = c.Kind()
	}
	return kinds
}

// Run transforms text through every stage: pipeline order when
// encrypting, exactly reversed order when decrypting, so that a decrypt
// run inverts an encrypt run stage by stage for any stage list. Each
// stage consumes the previous stage's full output; no stage starts
// before the one before it has finished.
func (p *Pipeline) Run(ctx context.Context, text string, mode Mode) (string, error) {
	if !mode.Valid() {
		return "", fmt.Errorf("unknown mode %q", mode)
	}
	for i := range p.stages {
		c := p.stages[i]
		if mode == ModeDecrypt {
			c = p.stages[len(p.stages)-1-i]
		}
		var err error
		text, err = p.runStage(ctx, c, text, mode)
		if err != nil {
			return "", err
		}
	}
	return text, nil
}

// runStage dispatches one stage. Caesar stages are chunked across
// workers because the shift carries no positional state; every other
// kind runs sequentially. The policy is per stage: a Caesar stage is
// chunked no matter what its neighbors are.
func (p *Pipeline) runStage(ctx context.Context, c Cipher, text string, mode Mode) (string, error) {
	if c.Kind() == KindCaesar {
		return p.transformChunked(ctx, c, text, mode)
	}
	return c.Transform(text, mode), nil
}
