package mcpserver

import "github.com/starford/quire/internal/blocks"

// BlockFormat describes the block document format and how each block maps to
// Markdown. It is served as the quire://block-format resource.
const BlockFormat = `# Quire Block Document Format

Pages are stored as Markdown. The block editor works on a JSON document:

` + "```" + `json
{"time": 1700000000000, "version": "` + blocks.FormatVersion + `", "blocks": [
  {"type": "header", "data": {"text": "Title", "level": 1}},
  {"type": "paragraph", "data": {"text": "Some <b>bold</b> text"}}
]}
` + "```" + `

## Blocks

| type | data | Markdown |
|---|---|---|
| header | text, level (1-6) | ` + "`# text`" + `, deeper levels clamp to 6 |
| paragraph | text | one paragraph per line |
| list | style (ordered, unordered), items | ` + "`- item`" + ` or ` + "`1. item`" + `, renumbered from 1 |
| code | code | fenced with three backticks, language dropped |
| quote | text, caption, alignment | ` + "`> text`" + `, one block per line |
| delimiter | (none) | ` + "`---`" + ` |
| table | withHeadings, content | pipe table, first row is the header |

Other block types (image, checklist, embeds) are kept in the JSON but do not
appear in the Markdown.

## Inline markup

Block text uses HTML tags; Markdown uses the usual markers:

- ` + "`<b>`" + ` is ` + "`**bold**`" + `
- ` + "`<i>`" + ` is ` + "`*italic*`" + `
- ` + "`<code class=\"inline-code\">`" + ` is a backtick span
- ` + "`<a href=\"url\">`" + ` is ` + "`[text](url)`" + `
- ` + "`<s>`" + ` is ` + "`~~strike~~`" + `

## Limits

- Nested lists flatten to a single level.
- Consecutive quote lines stay separate quotes.
- Nested inline markup is not guaranteed to survive a round trip.
- Frontmatter is not part of the block document; saving blocks keeps it.
`
