package indexer

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"journal-ai/internal/storage"
)

// maxEmbedRunes caps embedding input (targets ~450 tokens for a 512-token embedding model).
const maxEmbedRunes = 700

// TextExtractor turns markdown journal content into plain text for embedding.
type TextExtractor struct {
	parser goldmark.Markdown
}

// NewTextExtractor creates a goldmark-backed extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.TaskList),
		),
	}
}

// PlainText renders block-level markdown as one line per block, dropping
// markup such as emphasis markers, link targets and list bullets.
func (e *TextExtractor) PlainText(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	source := []byte(content)
	doc := e.parser.Parser().Parse(text.NewReader(source))

	var lines []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			if line := extractTextFromNode(node, source); line != "" {
				lines = append(lines, line)
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if block := codeBlockText(node, source); block != "" {
				lines = append(lines, block)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(lines, "\n")
}

// EmbeddingText is the text embedded for a record: its content, reflections
// and activity lists, truncated to the embedding model's budget.
func (e *TextExtractor) EmbeddingText(rec storage.Record) string {
	parts := []string{e.PlainText(rec.Content)}
	if r := e.PlainText(rec.Reflections); r != "" {
		parts = append(parts, r)
	}
	for _, list := range [][]string{
		rec.WorkActivities, rec.PersonalActivities, rec.LearningActivities,
		rec.HealthActivities, rec.GoalsAchieved, rec.ChallengesFaced,
	} {
		if len(list) > 0 {
			parts = append(parts, strings.Join(list, "，"))
		}
	}
	return truncate(strings.TrimSpace(strings.Join(parts, "\n")), maxEmbedRunes)
}

// extractTextFromNode extracts text content from a node and its children.
func extractTextFromNode(n ast.Node, content []byte) string {
	var textBuilder strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			textBuilder.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				textBuilder.WriteByte(' ')
			}
		case *ast.String:
			textBuilder.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(textBuilder.String())
}

func codeBlockText(n ast.Node, content []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(content))
	}
	return strings.TrimSpace(b.String())
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
