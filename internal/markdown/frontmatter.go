package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

var (
	yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

	leadingHeadingRe = regexp.MustCompile(`^#[ \t]+([^\r\n]*?)[ \t]*(?:\r?\n|$)`)
	anyHeadingRe     = regexp.MustCompile(`(?m)^#[ \t]+([^\r\n]*?)[ \t]*(?:\r?\n|$)`)
)

// knownKeys are the metadata keys that make a trailing block count as legacy
// metadata rather than prose.
var knownKeys = []string{
	"title", "description", "publicationDate", "updatedDate", "heroImage",
	"heroAltText", "category", "tags", "featured", "draft", "slug", "date", "summary",
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"02.01.2006",
}

// ParseDocument splits raw vault text into a provisional title, the recognised
// metadata, and the body. It never fails: a missing or malformed metadata
// block yields empty metadata.
func ParseDocument(source string) interfaces.ParsedDocument {
	text := source
	title := ""

	if m := leadingHeadingRe.FindStringSubmatchIndex(text); m != nil {
		title = strings.TrimSpace(text[m[2]:m[3]])
		text = text[m[1]:]
	}

	text = strings.TrimLeft(text, " \t\r\n")
	raw, body := splitMetadata(text)

	if title == "" {
		if m := anyHeadingRe.FindStringSubmatchIndex(body); m != nil {
			title = strings.TrimSpace(body[m[2]:m[3]])
			body = body[:m[0]] + body[m[1]:]
		}
	}

	body = stripLeadingHeading(body)

	legacyBlock := false
	if legacy, rest, ok := splitLegacyMetadata(body); ok {
		legacyBlock = true
		for key, value := range legacy {
			if _, exists := raw[key]; !exists {
				raw[key] = value
			}
		}
		body = rest
	}

	return interfaces.ParsedDocument{
		Title:       title,
		FrontMatter: frontMatterFromRaw(raw),
		Body:        body,
		LegacyBlock: legacyBlock,
	}
}

// HasLeadingHeading reports whether source opens with a top-level heading line.
func HasLeadingHeading(source string) bool {
	return leadingHeadingRe.MatchString(source)
}

func splitMetadata(text string) (map[string]any, string) {
	raw := map[string]any{}
	if !strings.HasPrefix(text, "---") {
		return raw, text
	}

	var decoded map[string]any
	rest, err := frontmatter.Parse(strings.NewReader(text), &decoded, yamlFormat)
	if err != nil {
		return raw, text
	}
	for key, value := range decoded {
		raw[key] = value
	}
	return raw, string(rest)
}

func stripLeadingHeading(body string) string {
	trimmed := strings.TrimLeft(body, " \t\r\n")
	if m := leadingHeadingRe.FindStringIndex(trimmed); m != nil {
		return trimmed[m[1]:]
	}
	return body
}

func splitLegacyMetadata(body string) (map[string]any, string, bool) {
	trimmed := strings.TrimLeft(body, " \t\r\n")
	if !strings.HasPrefix(trimmed, "---") {
		return nil, body, false
	}
	raw, rest := splitMetadata(trimmed)
	if !hasKnownKey(raw) {
		return nil, body, false
	}
	return raw, rest, true
}

func hasKnownKey(raw map[string]any) bool {
	for _, key := range knownKeys {
		if _, ok := raw[key]; ok {
			return true
		}
	}
	return false
}

func frontMatterFromRaw(raw map[string]any) interfaces.FrontMatter {
	return interfaces.FrontMatter{
		Title:           stringValue(raw["title"]),
		Description:     stringValue(raw["description"]),
		PublicationDate: dateValue(raw["publicationDate"]),
		UpdatedDate:     dateValue(raw["updatedDate"]),
		HeroImage:       stringValue(raw["heroImage"]),
		HeroAltText:     stringValue(raw["heroAltText"]),
		Category:        stringValue(raw["category"]),
		Tags:            tagsValue(raw["tags"]),
		Featured:        boolValue(raw["featured"]),
		Draft:           boolValue(raw["draft"]),
		Slug:            stringValue(raw["slug"]),
		Date:            dateValue(raw["date"]),
		Summary:         stringValue(raw["summary"]),
		Raw:             raw,
	}
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		return v.UTC().Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// dateValue normalises YAML timestamps and common date strings to YYYY-MM-DD.
// Unrecognised strings are kept verbatim.
func dateValue(value any) string {
	if t, ok := value.(time.Time); ok {
		return t.UTC().Format("2006-01-02")
	}
	s := stringValue(value)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

func tagsValue(value any) []string {
	var items []string
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		for _, item := range v {
			items = append(items, stringValue(item))
		}
	case []string:
		items = append(items, v...)
	case string:
		items = strings.Split(v, ",")
	default:
		items = []string{stringValue(v)}
	}

	tags := make([]string, 0, len(items))
	for _, item := range items {
		tag := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(item), "#"))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func boolValue(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true
		}
	}
	return false
}
