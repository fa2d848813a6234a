package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newProcessor() *TextProcessor {
	return NewTextProcessor(zap.NewNop())
}

func TestTruncateTextNoLimit(t *testing.T) {
	tp := newProcessor()

	assert.Equal(t, "hello", tp.TruncateText("hello", 0))
	assert.Equal(t, "hello", tp.TruncateText("hello", 100))
}

func TestTruncateTextKeepsValidUTF8(t *testing.T) {
	tp := newProcessor()

	// Cutting "héllo" at 2 bytes would split the é sequence.
	out := tp.TruncateText("héllo", 2)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "h", out)
}

func TestSanitizeUTF8(t *testing.T) {
	tp := newProcessor()

	valid := "normal text"
	assert.Equal(t, valid, tp.SanitizeUTF8(valid))

	invalid := "bad\xffbyte"
	out := tp.SanitizeUTF8(invalid)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "badbyte", out)
}

func TestNormalizeCRLF(t *testing.T) {
	tp := newProcessor()

	assert.Equal(t, "line one\nline two", tp.Normalize("line one\r\nline two"))
}

func TestNormalizeNFC(t *testing.T) {
	tp := newProcessor()

	// Decomposed e + combining acute collapses to the precomposed form.
	decomposed := "é"
	assert.Equal(t, "é", tp.Normalize(decomposed))
}

func TestProcessText(t *testing.T) {
	tp := newProcessor()

	long := strings.Repeat("a", 50)
	out := tp.ProcessText(long+"\xff", 50)
	assert.True(t, utf8.ValidString(out))
	assert.LessOrEqual(t, len(out), 50)
}
