// Package markdown extracts text from Markdown files.
package markdown

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/normalisers/plaintext"
)

// Ensure Normaliser implements the interface.
var _ driven.Extractor = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{"md", "markdown"}
}

// Extract reads the file and returns its text with Markdown syntax removed.
func (n *Normaliser) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", domain.ErrExtraction, path, err)
	}
	return Strip(plaintext.Normalise(data)), nil
}

// Pre-compiled patterns, applied in order by Strip.
var (
	frontMatter  = regexp.MustCompile(`(?s)\A---\n.*?\n---\n`)
	codeFence    = regexp.MustCompile("(?m)^[ \t]*(```|~~~).*$")
	inlineCode   = regexp.MustCompile("`([^`\n]+)`")
	images       = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	strongStar   = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	strongUnder  = regexp.MustCompile(`__([^_\n]+)__`)
	emStar       = regexp.MustCompile(`\*([^*\s][^*\n]*)\*`)
	emUnder      = regexp.MustCompile(`(^|\s)_([^_\n]+)_`)
	blockquote   = regexp.MustCompile(`(?m)^>[ \t]?`)
	rule         = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	bullets      = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numbered     = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	tableRule    = regexp.MustCompile(`(?m)^[ \t]*\|?([ \t]*:?-+:?[ \t]*\|)+[ \t]*:?-*:?[ \t]*\n`)
	htmlTags     = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	trailingWS   = regexp.MustCompile(`(?m)[ \t]+$`)
)

// Strip removes Markdown formatting and keeps the readable text.
// Code inside fences is kept; only the fence lines go.
func Strip(content string) string {
	content = frontMatter.ReplaceAllString(content, "")
	content = codeFence.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "$1")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = strongStar.ReplaceAllString(content, "$1")
	content = strongUnder.ReplaceAllString(content, "$1")
	content = emStar.ReplaceAllString(content, "$1")
	content = emUnder.ReplaceAllString(content, "$1$2")
	content = blockquote.ReplaceAllString(content, "")
	content = tableRule.ReplaceAllString(content, "")
	content = rule.ReplaceAllString(content, "")
	content = bullets.ReplaceAllString(content, "")
	content = numbered.ReplaceAllString(content, "")
	content = htmlTags.ReplaceAllString(content, "")
	content = trailingWS.ReplaceAllString(content, "")
	content = blankRuns.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}

// Title returns the first level-one heading, or "".
func Title(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}
