// Package textproc renders post content: markdown to HTML, sanitized for
// storage and display. The same renderer backs previews, stored quoted
// excerpts and report message bodies.
package textproc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Divider separates merged reply content and report message sections.
const Divider = "<hr>"

type Processor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Processor {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowElements("hr")
	policy.RequireNoFollowOnLinks(false)
	policy.AllowRelativeURLs(true)

	return &Processor{md: md, policy: policy}
}

// Render converts raw markdown into sanitized HTML. On a markdown
// conversion failure the raw text is still sanitized and returned.
func (p *Processor) Render(raw string) string {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(raw), &buf); err != nil {
		return p.policy.Sanitize(raw)
	}
	return p.policy.Sanitize(strings.TrimSpace(buf.String()))
}

// Sanitize strips disallowed HTML without rendering markdown.
func (p *Processor) Sanitize(raw string) string {
	return p.policy.Sanitize(raw)
}

// Quote builds the blockquote that seeds a reply to quotedContent.
// A non-empty excerpt quotes only the selected part.
func (p *Processor) Quote(quotedContent, excerpt string) string {
	quoted := quotedContent
	if excerpt != "" {
		quoted = excerpt
	}
	return fmt.Sprintf("<blockquote>%s</blockquote>\n", p.Sanitize(quoted))
}
