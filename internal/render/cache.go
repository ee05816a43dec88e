package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

const (
	// widthStep is the granularity of wrap widths sharing renderers. The
	// chat screen resizes one column at a time; rounding down keeps the
	// number of distinct renderers small and never wraps wider than asked.
	widthStep = 8

	// maxIdle is how many idle renderers each key keeps
	maxIdle = 4

	// maxKeys bounds the cache; past it every key is dropped
	maxKeys = 16
)

// rendererKey identifies renderers that produce identical output
type rendererKey struct {
	style    string
	width    int
	preserve bool
}

func keyFor(opts Options) rendererKey {
	return rendererKey{
		style:    opts.Style,
		width:    bucketWidth(opts.Width),
		preserve: opts.PreserveNewLines,
	}
}

func bucketWidth(width int) int {
	if width < widthStep {
		return width
	}
	return width - width%widthStep
}

// rendererCache lends out glamour renderers. A TermRenderer must not be
// shared between concurrent Render calls, so each borrower gets its own.
type rendererCache struct {
	mu   sync.Mutex
	idle map[rendererKey][]*glamour.TermRenderer
}

var renderers = &rendererCache{idle: make(map[rendererKey][]*glamour.TermRenderer)}

func (c *rendererCache) borrow(key rendererKey) (*glamour.TermRenderer, error) {
	c.mu.Lock()
	if list := c.idle[key]; len(list) > 0 {
		r := list[len(list)-1]
		c.idle[key] = list[:len(list)-1]
		c.mu.Unlock()
		return r, nil
	}
	if _, ok := c.idle[key]; !ok {
		if len(c.idle) >= maxKeys {
			c.idle = make(map[rendererKey][]*glamour.TermRenderer)
		}
		c.idle[key] = nil
	}
	c.mu.Unlock()

	return newRenderer(key)
}

func (c *rendererCache) giveBack(key rendererKey, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.idle[key]
	if !ok || len(list) >= maxIdle {
		return
	}
	c.idle[key] = append(list, r)
}

func (c *rendererCache) idleCount(key rendererKey) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.idle[key])
}

func newRenderer(key rendererKey) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithWordWrap(key.width),
	}

	if IsStandardStyle(key.style) {
		rendererOpts = append(rendererOpts, glamour.WithStandardStyle(key.style))
	} else {
		rendererOpts = append(rendererOpts, glamour.WithStylePath(key.style))
	}

	if key.preserve {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops all idle renderers
func ClearCache() {
	renderers.mu.Lock()
	renderers.idle = make(map[rendererKey][]*glamour.TermRenderer)
	renderers.mu.Unlock()
}

// CacheSize returns the number of distinct renderer configurations seen
// since the cache was last cleared
func CacheSize() int {
	renderers.mu.Lock()
	defer renderers.mu.Unlock()
	return len(renderers.idle)
}
