package render

import "strings"

// Markdown renders content as styled terminal text
func Markdown(content string, opts Options) (string, error) {
	key := keyFor(opts)
	renderer, err := renderers.borrow(key)
	if err != nil {
		return "", err
	}
	defer renderers.giveBack(key, renderer)

	return renderer.Render(content)
}

// Answer renders an assistant answer, falling back to the raw text when
// rendering fails. Surrounding blank lines added by glamour are trimmed.
func Answer(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
