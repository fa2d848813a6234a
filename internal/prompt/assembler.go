// Package prompt renders the analysis prompt sent to the inference gateway.
package prompt

import (
	"fmt"
	"os"
	"strings"

	"github.com/smishguard/smishguard/internal/core"
	"go.uber.org/zap"
)

// Placeholders recognized in prompt templates. A template is free to omit
// either one; the corresponding content is simply not emitted.
const (
	PlaceholderMessage  = "{{message}}"
	PlaceholderExamples = "{{examples}}"
)

// Generic per-label explanations shown with retrieved examples. The corpus
// stores no explanation per example, so these stand in.
const (
	benignExampleNote   = "This is a normal, legitimate message."
	smishingExampleNote = "This message uses deception to steal information or money."
)

// fallbackTemplate is used when the configured template asset cannot be
// loaded. It carries no examples block so prompt construction never fails.
const fallbackTemplate = `You are an SMS fraud analyst. Decide whether the following message is smishing (SMS phishing) or benign.

Respond in exactly this format:
## Classification: <smishing or benign>
## Explanation: <one or two sentences on why>
## Tips: <short safety guidance for the recipient>

Message:
{{message}}`

// Assembler builds prompts from a template, the input message and
// retrieved examples.
type Assembler struct {
	template string
	logger   *zap.Logger
}

// NewAssembler loads the template asset at templatePath. If loading fails
// the assembler falls back to a minimal hardcoded template and keeps going.
func NewAssembler(templatePath string, logger *zap.Logger) *Assembler {
	template := fallbackTemplate
	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			logger.Warn("Failed to load prompt template, using fallback",
				zap.String("path", templatePath),
				zap.Error(err))
		} else {
			template = string(data)
		}
	}

	return &Assembler{
		template: template,
		logger:   logger,
	}
}

// Build renders the assembler's template for the given message text. A nil
// retrieval result yields a prompt without an examples block.
func (a *Assembler) Build(inputText string, retrieval *core.RetrievalResult) string {
	return Render(a.template, inputText, retrieval)
}

// Render substitutes the message and examples placeholders in template.
// Placeholders absent from the template are skipped without error.
func Render(template, inputText string, retrieval *core.RetrievalResult) string {
	out := strings.ReplaceAll(template, PlaceholderMessage, inputText)
	out = strings.ReplaceAll(out, PlaceholderExamples, examplesBlock(retrieval))
	return out
}

// examplesBlock formats retrieved examples benign-first, preserving each
// group's retrieval order.
func examplesBlock(retrieval *core.RetrievalResult) string {
	if retrieval == nil {
		return ""
	}

	var sb strings.Builder
	writeExamples(&sb, retrieval.Benign, core.LabelBenign, benignExampleNote)
	writeExamples(&sb, retrieval.Smishing, core.LabelSmishing, smishingExampleNote)
	return strings.TrimRight(sb.String(), "\n")
}

func writeExamples(sb *strings.Builder, examples []core.ScoredExample, label core.Label, note string) {
	for _, ex := range examples {
		fmt.Fprintf(sb, "Message: %q\nClassification: %s\nExplanation: %s\n\n", ex.Text, label, note)
	}
}
