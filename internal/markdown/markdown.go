// Package markdown renders collection descriptions.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls how Markdown is rendered.
type Options struct {
	// HardWraps renders single newlines as <br>.
	HardWraps bool
}

// Render converts a Markdown body (frontmatter already removed) into HTML.
// Raw HTML in the source is omitted.
func Render(body []byte, opts Options) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}

	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
	}
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithHardWraps()))
	}
	md := goldmark.New(rendererOpts...)

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
