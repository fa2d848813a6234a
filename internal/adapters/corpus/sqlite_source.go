package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/smishguard/smishguard/internal/core"
	"go.uber.org/zap"
)

// SQLiteSource loads label corpora from a bundled SQLite database. The
// database is a read-only static asset; embeddings are stored as JSON
// arrays in the embedding column.
//
// Schema:
//
//	CREATE TABLE examples (
//	    id        INTEGER PRIMARY KEY,
//	    label     TEXT NOT NULL,
//	    text      TEXT NOT NULL,
//	    embedding TEXT NOT NULL
//	);
type SQLiteSource struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteSource opens the corpus database
func NewSQLiteSource(dbPath string, logger *zap.Logger) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus database: %w", err)
	}

	return &SQLiteSource{
		db:     db,
		logger: logger,
	}, nil
}

// Load reads all examples for the given label in insertion order
func (s *SQLiteSource) Load(ctx context.Context, label core.Label) ([]core.LabeledExample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT text, embedding
		FROM examples
		WHERE label = ?
		ORDER BY id
	`, string(label))
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus database: %w", err)
	}
	defer rows.Close()

	var examples []core.LabeledExample
	for rows.Next() {
		var text, embeddingJSON string
		if err := rows.Scan(&text, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("failed to scan corpus row: %w", err)
		}

		var embedding []float32
		if err := json.Unmarshal([]byte(embeddingJSON), &embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding for %q: %w", text, err)
		}

		examples = append(examples, core.LabeledExample{
			Text:      text,
			Label:     label,
			Embedding: embedding,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate corpus rows: %w", err)
	}

	s.logger.Debug("Loaded corpus from database",
		zap.String("label", string(label)),
		zap.Int("examples", len(examples)))

	return examples, nil
}

// Close releases the database handle
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
