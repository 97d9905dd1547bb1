// Package frontmatter splits YAML frontmatter from a page body and derives the
// page title, tags, and wikilinks.
package frontmatter

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	tagRe      = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
)

// Page is a parsed Markdown page.
type Page struct {
	// Header is the frontmatter block exactly as written, fences included,
	// or "" when the page has none.
	Header string
	Fields map[string]any
	Body   string
	Links  []string
	Tags   []string
	Title  string
}

// Parse splits data into frontmatter and body. A missing closing fence or
// invalid YAML leaves the whole input as body.
func Parse(data []byte) *Page {
	header, fields, body := split(string(data))
	return &Page{
		Header: header,
		Fields: fields,
		Body:   body,
		Links:  extractLinks(body),
		Tags:   extractTags(body, fields),
		Title:  deriveTitle(fields, body),
	}
}

// Join reattaches a frontmatter header to a body. The body is written with a
// single trailing newline.
func Join(header, body string) []byte {
	body = strings.TrimRight(body, "\n")
	var sb strings.Builder
	if header != "" {
		sb.WriteString(strings.TrimRight(header, "\n"))
		sb.WriteString("\n\n")
	}
	sb.WriteString(body)
	sb.WriteString("\n")
	return []byte(sb.String())
}

func split(content string) (string, map[string]any, string) {
	trimmed := strings.TrimLeft(content, "\r\n")
	if !strings.HasPrefix(trimmed, fence) {
		return "", nil, content
	}

	rest := trimmed[len(fence):]
	idx := strings.Index(rest, "\n"+fence)
	if idx < 0 {
		return "", nil, content
	}

	yamlBlock := rest[:idx]
	end := len(fence) + idx + 1 + len(fence)
	afterFence := trimmed[end:]
	if nl := strings.IndexByte(afterFence, '\n'); nl >= 0 && strings.TrimSpace(afterFence[:nl]) == "" {
		end += nl + 1
		afterFence = afterFence[nl+1:]
	}

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &fields); err != nil {
		return "", nil, content
	}
	return trimmed[:end], fields, strings.TrimLeft(afterFence, "\r\n")
}

// extractLinks returns deduplicated wikilink targets; [[Target|Alias]] yields Target.
func extractLinks(body string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target, _, _ := strings.Cut(m[1], "|")
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// extractTags merges frontmatter tags (a YAML list or a comma-separated
// string) with inline #tags, frontmatter first.
func extractTags(body string, fields map[string]any) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	switch v := fields["tags"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			add(s)
		}
	}

	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	return out
}

// deriveTitle prefers the frontmatter title, then the first H1.
func deriveTitle(fields map[string]any, body string) string {
	if s, ok := fields["title"].(string); ok && s != "" {
		return s
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
