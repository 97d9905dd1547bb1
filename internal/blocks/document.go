// Package blocks converts between Markdown text and the block document format
// saved by the page editor.
//
// FromMarkdown parses Markdown line by line into an ordered list of typed
// blocks; ToMarkdown renders a block document back to Markdown. Both are pure
// functions with no shared state and are safe for concurrent use.
package blocks

import (
	"encoding/json"
	"fmt"
)

// FormatVersion is the editor data version stamped on every generated document.
const FormatVersion = "2.28.2"

// Block types understood by the converter.
const (
	TypeHeader    = "header"
	TypeParagraph = "paragraph"
	TypeList      = "list"
	TypeCode      = "code"
	TypeQuote     = "quote"
	TypeDelimiter = "delimiter"
	TypeTable     = "table"
)

// List styles.
const (
	StyleOrdered   = "ordered"
	StyleUnordered = "unordered"
)

// Document is the block editor's saved-data shape.
type Document struct {
	GeneratedAt int64   `json:"time"`
	Blocks      []Block `json:"blocks"`
	Version     string  `json:"version"`
}

// Block is one typed unit of a document. Data holds one of Header, Paragraph,
// List, Code, Quote, Delimiter, Table, or Opaque for types the converter does
// not know.
type Block struct {
	ID   string
	Type string
	Data Data
}

// Data is the payload of a block.
type Data interface {
	blockType() string
}

// Header is a heading with a level between 1 and 6.
type Header struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Paragraph is a single line of text.
type Paragraph struct {
	Text string `json:"text"`
}

// List is a flat ordered or unordered list.
type List struct {
	Style string   `json:"style"`
	Items []string `json:"items"`
}

// Code is a fenced code block. The text is kept verbatim.
type Code struct {
	Code string `json:"code"`
}

// Quote is a single blockquote line.
type Quote struct {
	Text      string `json:"text"`
	Caption   string `json:"caption"`
	Alignment string `json:"alignment"`
}

// Delimiter is a horizontal rule.
type Delimiter struct{}

// Table holds rows of cells; the first row is the heading row.
type Table struct {
	WithHeadings bool       `json:"withHeadings"`
	Content      [][]string `json:"content"`
}

// Opaque carries the raw data of a block type the converter does not handle
// (images, checklists, embeds). It survives a JSON round trip but renders to
// nothing in Markdown.
type Opaque struct {
	Raw json.RawMessage
}

func (Header) blockType() string    { return TypeHeader }
func (Paragraph) blockType() string { return TypeParagraph }
func (List) blockType() string      { return TypeList }
func (Code) blockType() string      { return TypeCode }
func (Quote) blockType() string     { return TypeQuote }
func (Delimiter) blockType() string { return TypeDelimiter }
func (Table) blockType() string     { return TypeTable }
func (Opaque) blockType() string    { return "" }

// NewBlock wraps d in a Block of the matching type.
func NewBlock(d Data) Block {
	return Block{Type: d.blockType(), Data: d}
}

// payload returns the block's data, substituting the zero value of the
// block's type when Data is nil.
func (b Block) payload() Data {
	if b.Data != nil {
		return b.Data
	}
	switch b.Type {
	case TypeHeader:
		return Header{}
	case TypeParagraph:
		return Paragraph{}
	case TypeList:
		return List{}
	case TypeCode:
		return Code{}
	case TypeQuote:
		return Quote{}
	case TypeDelimiter:
		return Delimiter{}
	case TypeTable:
		return Table{}
	}
	return nil
}

type wireBlock struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes the block as {"id", "type", "data"}.
func (b Block) MarshalJSON() ([]byte, error) {
	w := wireBlock{ID: b.ID, Type: b.Type}
	switch d := b.payload().(type) {
	case nil:
		w.Data = json.RawMessage(`{}`)
	case Opaque:
		w.Data = d.Raw
		if len(w.Data) == 0 {
			w.Data = json.RawMessage(`{}`)
		}
	default:
		if w.Type == "" {
			w.Type = d.blockType()
		}
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("blocks: encode %s: %w", w.Type, err)
		}
		w.Data = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a block, dispatching on its type.
func (b *Block) UnmarshalJSON(data []byte) error {
	var w wireBlock
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	b.ID = w.ID
	b.Type = w.Type

	raw := w.Data
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage(`{}`)
	}

	var (
		d   Data
		err error
	)
	switch w.Type {
	case TypeHeader:
		var v Header
		err = json.Unmarshal(raw, &v)
		d = v
	case TypeParagraph:
		var v Paragraph
		err = json.Unmarshal(raw, &v)
		d = v
	case TypeList:
		var v List
		err = json.Unmarshal(raw, &v)
		d = v
	case TypeCode:
		var v Code
		err = json.Unmarshal(raw, &v)
		d = v
	case TypeQuote:
		var v Quote
		err = json.Unmarshal(raw, &v)
		d = v
	case TypeDelimiter:
		d = Delimiter{}
	case TypeTable:
		var v Table
		err = json.Unmarshal(raw, &v)
		d = v
	default:
		d = Opaque{Raw: append(json.RawMessage(nil), w.Data...)}
	}
	if err != nil {
		return fmt.Errorf("blocks: decode %s: %w", w.Type, err)
	}
	b.Data = d
	return nil
}

// UnmarshalJSON accepts items as plain strings or as nested list objects
// ({"content": "...", "items": [...]}), flattening the latter depth first.
func (l *List) UnmarshalJSON(data []byte) error {
	var w struct {
		Style string            `json:"style"`
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	l.Style = w.Style
	l.Items = nil
	return l.appendItems(w.Items)
}

func (l *List) appendItems(items []json.RawMessage) error {
	for _, raw := range items {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			l.Items = append(l.Items, s)
			continue
		}
		var nested struct {
			Content string            `json:"content"`
			Items   []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(raw, &nested); err != nil {
			return fmt.Errorf("list item: %w", err)
		}
		l.Items = append(l.Items, nested.Content)
		if err := l.appendItems(nested.Items); err != nil {
			return err
		}
	}
	return nil
}
