// Package interpret extracts a structured analysis outcome from the raw
// model response. The model's formatting is not guaranteed exact, so this
// is a tolerant line-oriented scanner rather than a strict grammar: headers
// may vary in case and may carry a markdown heading prefix, and tips may
// span multiple lines.
package interpret

import (
	"strings"
	"time"

	"github.com/smishguard/smishguard/internal/core"
	"go.uber.org/zap"
)

// Default texts substituted when the model omits a section.
const (
	DefaultSmishingExplanation = "Message contains suspicious content"
	DefaultBenignExplanation   = "Message appears to be legitimate"

	DefaultSmishingTips = "Do not click any links or reply. Block the sender and report the message to your carrier."
	DefaultBenignTips   = "No action needed. Stay cautious with unexpected links and requests for personal information."

	failureExplanation = "Unable to analyze this message"
)

// Recognized section headers, matched case-insensitively after stripping an
// optional "## " heading prefix.
const (
	headerClassification = "CLASSIFICATION:"
	headerExplanation    = "EXPLANATION:"
	headerTips           = "TIPS:"
)

// Interpreter parses raw model output into an AnalysisOutcome.
type Interpreter struct {
	logger *zap.Logger
}

// NewInterpreter creates a new response interpreter
func NewInterpreter(logger *zap.Logger) *Interpreter {
	return &Interpreter{logger: logger}
}

// Parse extracts classification, explanation and tips from raw model text.
// It never fails: any internal fault resolves to a safe benign outcome so a
// result is always produced once the gateway responds.
func (p *Interpreter) Parse(raw string) (outcome *core.AnalysisOutcome) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Response parsing panicked, using safe default",
				zap.Any("panic", r))
			outcome = &core.AnalysisOutcome{
				IsSmishing:  false,
				Explanation: failureExplanation,
				Tips:        DefaultBenignTips,
				AnalyzedAt:  time.Now(),
			}
		}
	}()

	var classification, explanation string
	var tips []string
	inTips := false

	// The model sometimes emits literal "\n" escapes instead of newlines.
	normalized := strings.ReplaceAll(raw, `\n`, "\n")

	for _, line := range strings.Split(normalized, "\n") {
		trimmed := strings.TrimSpace(line)

		if field, rest, ok := matchHeader(trimmed); ok {
			switch field {
			case headerClassification:
				classification = strings.ToLower(strings.TrimSpace(rest))
				inTips = false
			case headerExplanation:
				explanation = strings.TrimSpace(rest)
				inTips = false
			case headerTips:
				inTips = true
				if rest = strings.TrimSpace(rest); rest != "" {
					tips = append(tips, rest)
				}
			}
			continue
		}

		if inTips && trimmed != "" && !strings.HasPrefix(trimmed, "##") {
			tips = append(tips, trimmed)
		}
	}

	// Substring match: any classification value mentioning smishing is
	// treated as fraudulent; absent classification defaults to benign.
	isSmishing := strings.Contains(classification, "smishing")

	if explanation == "" {
		if isSmishing {
			explanation = DefaultSmishingExplanation
		} else {
			explanation = DefaultBenignExplanation
		}
	}

	tipsText := strings.Join(tips, " ")
	if tipsText == "" {
		if isSmishing {
			tipsText = DefaultSmishingTips
		} else {
			tipsText = DefaultBenignTips
		}
	}

	return &core.AnalysisOutcome{
		IsSmishing:  isSmishing,
		Explanation: explanation,
		Tips:        tipsText,
		AnalyzedAt:  time.Now(),
	}
}

// matchHeader reports whether the line starts with a known section header,
// ignoring case and an optional leading "## " markdown prefix. It returns
// the canonical header and the remainder after the colon.
func matchHeader(line string) (field, rest string, ok bool) {
	stripped := strings.TrimPrefix(line, "## ")
	upper := strings.ToUpper(stripped)

	for _, h := range []string{headerClassification, headerExplanation, headerTips} {
		if strings.HasPrefix(upper, h) {
			return h, stripped[len(h):], true
		}
	}
	return "", "", false
}
