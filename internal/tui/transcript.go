package tui

import (
	"fmt"
	"strings"

	"github.com/diogo/ragchat/internal/models"
)

// Block is one rendered transcript entry
type Block struct {
	Key  string
	Text string
}

// TranscriptKey identifies the entry at index i
func TranscriptKey(role models.Role, i int) string {
	return fmt.Sprintf("%s-%d", role, i)
}

// TranscriptBlocks renders entries in order, one block per entry
func TranscriptBlocks(entries []models.Message, opts ViewOptions) []Block {
	blocks := make([]Block, 0, len(entries))
	for i, entry := range entries {
		blocks = append(blocks, Block{
			Key:  TranscriptKey(entry.Role, i),
			Text: RenderMessage(entry, opts),
		})
	}
	return blocks
}

// RenderTranscript draws the whole transcript, followed by the loading
// line while a request is outstanding.
func RenderTranscript(entries []models.Message, busy bool, opts ViewOptions) string {
	var sb strings.Builder
	for i, block := range TranscriptBlocks(entries, opts) {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(block.Text)
	}

	if busy {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(loadingStyle.Render(models.LoadingText))
	}

	return sb.String()
}
