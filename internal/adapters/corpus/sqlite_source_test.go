package corpus

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smishguard/smishguard/internal/core"
)

type corpusRow struct {
	label     core.Label
	text      string
	embedding string
}

func writeCorpusDB(t *testing.T, rows []corpusRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE examples (
		    id        INTEGER PRIMARY KEY,
		    label     TEXT NOT NULL,
		    text      TEXT NOT NULL,
		    embedding TEXT NOT NULL
		)
	`)
	require.NoError(t, err)

	for _, row := range rows {
		_, err = db.Exec(
			"INSERT INTO examples (label, text, embedding) VALUES (?, ?, ?)",
			string(row.label), row.text, row.embedding)
		require.NoError(t, err)
	}

	return path
}

func TestSQLiteSourceLoad(t *testing.T) {
	path := writeCorpusDB(t, []corpusRow{
		{core.LabelBenign, "see you at noon", "[0.1, 0.2]"},
		{core.LabelSmishing, "your account is locked", "[0.5, 0.6]"},
		{core.LabelBenign, "thanks again", "[0.3, 0.4]"},
	})

	source, err := NewSQLiteSource(path, zap.NewNop())
	require.NoError(t, err)
	defer source.Close()

	examples, err := source.Load(context.Background(), core.LabelBenign)
	require.NoError(t, err)

	// Rows come back in insertion order, filtered by label.
	require.Len(t, examples, 2)
	assert.Equal(t, "see you at noon", examples[0].Text)
	assert.Equal(t, core.LabelBenign, examples[0].Label)
	assert.Equal(t, []float32{0.1, 0.2}, examples[0].Embedding)
	assert.Equal(t, "thanks again", examples[1].Text)
	assert.Equal(t, []float32{0.3, 0.4}, examples[1].Embedding)

	smishing, err := source.Load(context.Background(), core.LabelSmishing)
	require.NoError(t, err)
	require.Len(t, smishing, 1)
	assert.Equal(t, "your account is locked", smishing[0].Text)
}

func TestSQLiteSourceLoadEmptyLabel(t *testing.T) {
	path := writeCorpusDB(t, []corpusRow{
		{core.LabelBenign, "see you at noon", "[0.1, 0.2]"},
	})

	source, err := NewSQLiteSource(path, zap.NewNop())
	require.NoError(t, err)
	defer source.Close()

	examples, err := source.Load(context.Background(), core.LabelSmishing)
	require.NoError(t, err)
	assert.Empty(t, examples)
}

func TestSQLiteSourceLoadBadEmbedding(t *testing.T) {
	path := writeCorpusDB(t, []corpusRow{
		{core.LabelBenign, "broken row", "not json"},
	})

	source, err := NewSQLiteSource(path, zap.NewNop())
	require.NoError(t, err)
	defer source.Close()

	_, err = source.Load(context.Background(), core.LabelBenign)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode embedding")
}

func TestSQLiteSourceMissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.db")

	// sql.Open is lazy, so the missing read-only file only surfaces
	// when the first query runs.
	source, err := NewSQLiteSource(path, zap.NewNop())
	require.NoError(t, err)
	defer source.Close()

	_, err = source.Load(context.Background(), core.LabelBenign)
	require.Error(t, err)
}
