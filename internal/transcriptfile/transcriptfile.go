// Package transcriptfile loads transcript text from disk. Markdown files are
// reduced to their readable text so headings, emphasis and links do not end
// up in the scored transcript.
package transcriptfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Read returns the transcript stored at path. "-" reads stdin, which falls
// back to os.Stdin when nil.
func Read(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return Parse(data, IsMarkdown(path)), nil
}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Parse returns the transcript text in data.
func Parse(data []byte, markdown bool) string {
	if !markdown {
		return strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	}
	return PlainText(data)
}

// PlainText extracts the text of a Markdown document. Paragraphs and
// headings are separated by a blank line, list items by a newline, soft line
// breaks become spaces and code blocks are dropped.
func PlainText(source []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if !entering {
				return ast.WalkContinue, nil
			}
			b.Write(node.Segment.Value(source))
			switch {
			case node.HardLineBreak():
				b.WriteByte('\n')
			case node.SoftLineBreak():
				b.WriteByte(' ')
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.Label(source))
			}
		case *ast.Paragraph, *ast.Heading:
			if !entering {
				b.WriteString("\n\n")
			}
		case *ast.TextBlock:
			if !entering {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}
