package rag

import (
	"fmt"
	"strings"
)

const promptPreamble = "You are a helpful university support assistant. " +
	"Answer the question using ONLY the context provided below. " +
	"If the answer is not present, say you don't know."

// BuildPrompt assembles the grounded prompt: the instructions, the
// retrieved chunks as a numbered list, then the question.
func BuildPrompt(question string, hits []Hit) string {
	lines := make([]string, len(hits))
	for i, hit := range hits {
		lines[i] = fmt.Sprintf("%d. %s", i+1, hit.Content)
	}

	var sb strings.Builder
	sb.WriteString(promptPreamble)
	sb.WriteString("\n\nCONTEXT:\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\nUSER QUESTION: ")
	sb.WriteString(question)
	sb.WriteString("\n\nANSWER:")
	return sb.String()
}
