// ABOUTME: Markdown command rendered through glamour with a fixed dark style
// ABOUTME: Renders are cached by content hash and width since live blocks redraw every pass

package command

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/mauromedda/liveblock/internal/log"
	"github.com/mauromedda/liveblock/pkg/tui"
)

const markdownCacheLimit = 128

var markdownCache = struct {
	sync.Mutex
	m map[string]string
}{m: make(map[string]string)}

// Markdown appends src rendered as styled terminal text, word-wrapped at
// wrapWidth (glamour's default when <= 0). Blank input appends nothing; on
// render failure the raw source is appended instead.
func Markdown(src string, wrapWidth int) tui.Command {
	rendered := renderMarkdown(src, wrapWidth)
	if rendered == "" {
		return func(*tui.TextBuffer) {}
	}
	return Line(rendered)
}

func renderMarkdown(src string, wrapWidth int) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	key := cacheKey(src, wrapWidth)
	markdownCache.Lock()
	cached, ok := markdownCache.m[key]
	markdownCache.Unlock()
	if ok {
		return cached
	}

	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("dark")}
	if wrapWidth > 0 {
		opts = append(opts, glamour.WithWordWrap(wrapWidth))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		log.Warn("command: markdown renderer: %v", err)
		return src
	}
	rendered, err := renderer.Render(src)
	if err != nil {
		log.Warn("command: rendering markdown: %v", err)
		return src
	}
	// glamour pads with blank lines and trailing spaces
	rendered = strings.Trim(rendered, "\n")
	rendered = trimLineEnds(rendered)

	markdownCache.Lock()
	if len(markdownCache.m) >= markdownCacheLimit {
		clear(markdownCache.m)
	}
	markdownCache.m[key] = rendered
	markdownCache.Unlock()
	return rendered
}

func trimLineEnds(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

func cacheKey(content string, width int) string {
	h := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x:%d", h[:8], width)
}
