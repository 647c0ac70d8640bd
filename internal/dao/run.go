package dao

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/classic-cipher-go/internal/storage"
)

// Run records one pipeline execution for the run history.
type Run struct {
	ID         uint64    `json:"id"`
	Recipe     string    `json:"recipe,omitempty"`
	Kinds      []string  `json:"kinds"`
	Mode       string    `json:"mode"`
	InputLen   int       `json:"input_len"`
	OutputLen  int       `json:"output_len"`
	Workers    int       `json:"workers"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

const mirrorTableDDL = `CREATE TABLE IF NOT EXISTS cipher_runs (
	id BIGINT UNSIGNED NOT NULL,
	recipe VARCHAR(255) NOT NULL DEFAULT '',
	kinds VARCHAR(255) NOT NULL,
	mode VARCHAR(16) NOT NULL,
	input_len INT NOT NULL,
	output_len INT NOT NULL,
	workers INT NOT NULL,
	duration_ms BIGINT NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (id)
)`

const mirrorInsertSQL = `INSERT INTO cipher_runs
	(id, recipe, kinds, mode, input_len, output_len, workers, duration_ms, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// RunDAO appends run records to the runs bucket and optionally mirrors
// them to MySQL. The mirror is fire-and-forget: insert failures are
// logged and never fail the run itself.
type RunDAO struct {
	store      *storage.Store
	mirror     *sql.DB // nil when no DSN is configured
	mirrorOnce sync.Once
}

// NewRunDAO creates a run DAO. An empty DSN disables the mirror; a DSN
// that does not parse is rejected here rather than on first insert.
func NewRunDAO(store *storage.Store, dsn string) (*RunDAO, error) {
	d := &RunDAO{store: store}
	if dsn == "" {
		return d, nil
	}

	if _, err := mysql.ParseDSN(dsn); err != nil {
		return nil, fmt.Errorf("invalid database dsn: %w", err)
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(time.Minute)
	d.mirror = db
	return d, nil
}

// Record persists a run, assigning its sequence ID, and mirrors it
func (d *RunDAO) Record(run *Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := d.store.AppendFunc(storage.BucketRuns, func(seq uint64) ([]byte, error) {
		run.ID = seq
		return json.Marshal(run)
	})
	if err != nil {
		return err
	}

	d.mirrorRun(run)
	return nil
}

// List retrieves up to limit runs, newest first
func (d *RunDAO) List(limit int) ([]*Run, error) {
	data, err := d.store.GetLast(storage.BucketRuns, limit)
	if err != nil {
		return nil, err
	}

	result := make([]*Run, 0, len(data))
	for _, v := range data {
		var run Run
		if err := json.Unmarshal(v, &run); err == nil {
			result = append(result, &run)
		}
	}
	return result, nil
}

// Close releases the mirror connection pool
func (d *RunDAO) Close() error {
	if d.mirror == nil {
		return nil
	}
	return d.mirror.Close()
}

// mirrorRun inserts the record into MySQL in the background. The table
// is created lazily on the first mirrored run.
func (d *RunDAO) mirrorRun(run *Run) {
	if d.mirror == nil {
		return
	}

	r := *run
	go func() {
		d.mirrorOnce.Do(func() {
			if _, err := d.mirror.Exec(mirrorTableDDL); err != nil {
				log.Warn().Err(err).Msg("Failed to ensure MySQL run table")
			}
		})
		_, err := d.mirror.Exec(mirrorInsertSQL,
			r.ID, r.Recipe, strings.Join(r.Kinds, ","), r.Mode,
			r.InputLen, r.OutputLen, r.Workers, r.DurationMs, r.CreatedAt)
		if err != nil {
			log.Warn().Err(err).Uint64("run_id", r.ID).Msg("MySQL run mirror insert failed")
		}
	}()
}
