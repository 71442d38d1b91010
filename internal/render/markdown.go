package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders assistant text for the terminal. If the renderer cannot be built or
// fails, the text is returned unchanged.
func Markdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
