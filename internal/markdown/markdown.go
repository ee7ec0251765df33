// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown turns article source text into the structured block
// list the content store expects, and renders HTML previews. Parsing is
// goldmark-based; plain text without any Markdown structure degrades to
// one paragraph block per blank-line-separated chunk.
package markdown

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"pressline/internal/models"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // raw HTML passes through for preview parity
	),
)

// ToBlocks parses Markdown source into ordered heading and paragraph
// blocks. Every other node type (lists, code fences, quotes) is
// flattened into paragraph text so no content is silently dropped.
func ToBlocks(source string) []models.Block {
	src := []byte(source)
	root := md.Parser().Parse(text.NewReader(src))

	var blocks []models.Block
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			txt := nodeText(n, src)
			if txt == "" {
				continue
			}
			blocks = append(blocks, models.Block{
				Key:   blockKey(),
				Type:  models.BlockHeading,
				Level: n.Level,
				Text:  txt,
			})
		default:
			txt := nodeText(node, src)
			if txt == "" {
				continue
			}
			blocks = append(blocks, models.Block{
				Key:  blockKey(),
				Type: models.BlockParagraph,
				Text: txt,
			})
		}
	}

	if len(blocks) == 0 {
		return plainBlocks(source)
	}
	return blocks
}

// PreviewHTML renders Markdown source into HTML for local preview.
func PreviewHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// plainBlocks splits text that produced no Markdown nodes into
// paragraph blocks on blank lines.
func plainBlocks(source string) []models.Block {
	var blocks []models.Block
	for _, chunk := range strings.Split(source, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		blocks = append(blocks, models.Block{
			Key:  blockKey(),
			Type: models.BlockParagraph,
			Text: chunk,
		})
	}
	return blocks
}

// nodeText collects the plain text of a node and its descendants,
// joining separate lines with single spaces.
func nodeText(node ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func blockKey() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
