package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/classic-cipher-go/internal/cipher"
	"github.com/classic-cipher-go/internal/dao"
	"github.com/classic-cipher-go/internal/errors"
)

// TransformHandler handles the stateless transform endpoints
type TransformHandler struct {
	settings *EngineSettings
	runs     *dao.RunDAO
}

// NewTransformHandler creates a new transform handler
func NewTransformHandler(settings *EngineSettings, runs *dao.RunDAO) *TransformHandler {
	return &TransformHandler{settings: settings, runs: runs}
}

// TransformRequest is the body of a transform call. Stages are applied
// in order when encrypting and in reversed order when decrypting.
type TransformRequest struct {
	Text    string         `json:"text"`
	Mode    string         `json:"mode"`
	Stages  []cipher.Stage `json:"stages"`
	Workers int            `json:"workers,omitempty"`
}

// TransformResult is the payload returned by the transform endpoints
type TransformResult struct {
	Result    string `json:"result"`
	InputLen  int    `json:"input_len"`
	OutputLen int    `json:"output_len"`
	Workers   int    `json:"workers"`
	TookMs    int64  `json:"took_ms"`
}

// Transform handles POST /api/transform: normalize the text, build a
// one-off pipeline from the request stages and run it.
func (h *TransformHandler) Transform(c *gin.Context) {
	var req TransformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, errors.NewBadRequestWithCause("Invalid request body", err))
		return
	}

	mode, err := cipher.ParseMode(req.Mode)
	if err != nil {
		RespondError(c, errors.NewBadRequest(err.Error()))
		return
	}

	opts := h.settings.Options()
	if req.Workers > 0 {
		opts.Workers = req.Workers
	}

	pipeline, err := cipher.NewPipeline(req.Stages, opts)
	if err != nil {
		RespondError(c, engineError(err))
		return
	}

	text := cipher.Normalize(req.Text)
	start := time.Now()
	result, err := pipeline.Run(c.Request.Context(), text, mode)
	if err != nil {
		RespondError(c, engineError(err))
		return
	}
	took := time.Since(start)

	recordRun(h.runs, "", pipeline.Kinds(), mode, len(text), len(result), opts.Workers, took)

	RespondSuccess(c, TransformResult{
		Result:    result,
		InputLen:  len(text),
		OutputLen: len(result),
		Workers:   opts.Workers,
		TookMs:    took.Milliseconds(),
	})
}

// ListCiphers handles GET /api/ciphers
func (h *TransformHandler) ListCiphers(c *gin.Context) {
	RespondSuccess(c, cipher.ListRegistered())
}

// recordRun appends a run record. History is best effort: a failed
// append is logged and the transform response is unaffected.
func recordRun(runs *dao.RunDAO, recipe string, kinds []cipher.Kind, mode cipher.Mode, inputLen, outputLen, workers int, took time.Duration) {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	run := &dao.Run{
		Recipe:     recipe,
		Kinds:      names,
		Mode:       string(mode),
		InputLen:   inputLen,
		OutputLen:  outputLen,
		Workers:    workers,
		DurationMs: took.Milliseconds(),
	}
	if err := runs.Record(run); err != nil {
		log.Warn().Err(err).Msg("Failed to record run")
	}
}
