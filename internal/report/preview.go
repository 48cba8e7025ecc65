package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultPreviewWidth is the word-wrap width used for terminal previews.
const DefaultPreviewWidth = 100

// Preview renders markdown for display in a terminal.
// style is a glamour style name ("dark", "light", "notty"); empty picks one
// from the terminal background.
func Preview(markdown, style string, width int) (string, error) {
	if width <= 0 {
		width = DefaultPreviewWidth
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
