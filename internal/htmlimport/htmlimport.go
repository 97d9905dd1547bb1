// Package htmlimport turns pasted or fetched HTML into Markdown and block
// documents.
package htmlimport

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/starford/quire/internal/blocks"
)

// Importer converts HTML fragments. It is safe for concurrent use.
type Importer struct {
	conv *converter.Converter
}

// New returns an Importer whose Markdown output uses the constructs the block
// parser recognizes: ATX headings, "-" bullets, "---" rules, fenced code.
func New() *Importer {
	return &Importer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(
					commonmark.WithBulletListMarker("-"),
					commonmark.WithHorizontalRule("---"),
				),
				table.NewTablePlugin(),
			),
		),
	}
}

// ToMarkdown converts html to Markdown. Relative links resolve against domain
// when it is non-empty.
func (im *Importer) ToMarkdown(html, domain string) (string, error) {
	var opts []converter.ConvertOptionFunc
	if domain != "" {
		opts = append(opts, converter.WithDomain(domain))
	}
	md, err := im.conv.ConvertString(html, opts...)
	if err != nil {
		return "", fmt.Errorf("htmlimport: convert: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// ToBlocks converts html to a block document.
func (im *Importer) ToBlocks(html, domain string) (blocks.Document, error) {
	md, err := im.ToMarkdown(html, domain)
	if err != nil {
		return blocks.Document{}, err
	}
	return blocks.FromMarkdown(md), nil
}
