package vault

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var moodLine = regexp.MustCompile(`(?i)^\s*(?:mood|心情)\s*[:：]\s*(\d+)\s*$`)

// reflectionHeadings are matched case-insensitively against heading text.
var reflectionHeadings = map[string]bool{
	"reflections": true,
	"reflection":  true,
	"反思":          true,
}

// Note is a parsed daily note.
type Note struct {
	RecordDate  string
	Content     string
	Reflections string
	MoodScore   *int
	// MoodInvalid is set when a mood line was present but outside 1-10.
	MoodInvalid bool
}

// NoteParser splits daily notes into body, reflections and mood.
type NoteParser struct {
	md goldmark.Markdown
}

// NewNoteParser creates a goldmark-backed note parser.
func NewNoteParser() *NoteParser {
	return &NoteParser{
		md: goldmark.New(goldmark.WithExtensions(extension.Table, extension.TaskList)),
	}
}

// Parse reads the mood from the front of the note and moves every
// Reflections section out of the body.
func (p *NoteParser) Parse(date string, content []byte) Note {
	note := Note{RecordDate: date}

	rest, mood, found := splitFront(content)
	if found {
		if mood >= 1 && mood <= 10 {
			note.MoodScore = &mood
		} else {
			note.MoodInvalid = true
		}
	}

	body, reflections := p.splitReflections(rest)
	note.Content = strings.TrimSpace(string(body))
	note.Reflections = strings.TrimSpace(strings.Join(reflections, "\n\n"))
	return note
}

// splitFront strips a YAML front matter block or a leading mood line and
// returns the mood it carried.
func splitFront(content []byte) (rest []byte, mood int, found bool) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	trimmed := bytes.TrimLeft(content, " \t\r\n")

	if bytes.HasPrefix(trimmed, []byte("---\n")) || bytes.HasPrefix(trimmed, []byte("---\r\n")) {
		lines := strings.Split(string(trimmed), "\n")
		for i := 1; i < len(lines); i++ {
			line := strings.TrimRight(lines[i], "\r")
			if line == "---" {
				for _, fm := range lines[1:i] {
					if n, ok := parseMood(fm); ok {
						mood, found = n, true
					}
				}
				return []byte(strings.Join(lines[i+1:], "\n")), mood, found
			}
		}
		// Unterminated front matter is treated as body.
		return content, 0, false
	}

	first, after, _ := bytes.Cut(trimmed, []byte("\n"))
	if n, ok := parseMood(string(first)); ok {
		return after, n, true
	}
	return content, 0, false
}

func parseMood(line string) (int, bool) {
	m := moodLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

type section struct {
	start, body, end int
}

// splitReflections cuts each reflections heading and everything up to the next
// heading of the same or higher level out of the source.
func (p *NoteParser) splitReflections(source []byte) ([]byte, []string) {
	doc := p.md.Parser().Parse(text.NewReader(source))

	type heading struct {
		level  int
		offset int
		body   int
		match  bool
	}
	var headings []heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Lines().Len() == 0 {
			continue
		}
		title := strings.ToLower(strings.TrimSpace(headingText(h, source)))
		lines := h.Lines()
		offset := lineStart(source, lines.At(0).Start)
		body := nextLine(source, lines.At(lines.Len()-1).Start)
		if !bytes.HasPrefix(bytes.TrimLeft(source[offset:], " "), []byte("#")) {
			body = nextLine(source, body) // setext underline
		}
		headings = append(headings, heading{
			level:  h.Level,
			offset: offset,
			body:   body,
			match:  reflectionHeadings[title],
		})
	}

	var sections []section
	for i, h := range headings {
		if !h.match {
			continue
		}
		end := len(source)
		for _, next := range headings[i+1:] {
			if next.level <= h.level {
				end = next.offset
				break
			}
		}
		if len(sections) > 0 && h.offset < sections[len(sections)-1].end {
			continue // nested inside the previous reflections section
		}
		sections = append(sections, section{start: h.offset, body: min(h.body, end), end: end})
	}
	if len(sections) == 0 {
		return source, nil
	}

	var (
		body        bytes.Buffer
		reflections []string
		cursor      int
	)
	for _, s := range sections {
		body.Write(source[cursor:s.start])
		if r := strings.TrimSpace(string(source[s.body:s.end])); r != "" {
			reflections = append(reflections, r)
		}
		cursor = s.end
	}
	body.Write(source[cursor:])
	return body.Bytes(), reflections
}

func headingText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// nextLine returns the offset just past the newline at or after pos.
func nextLine(source []byte, pos int) int {
	if pos >= len(source) {
		return len(source)
	}
	if i := bytes.IndexByte(source[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(source)
}

func lineStart(source []byte, pos int) int {
	if i := bytes.LastIndexByte(source[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}
