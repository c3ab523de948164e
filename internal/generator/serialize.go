package generator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Serialize renders the metadata block in its fixed field order followed by
// a blank line and the body.
func Serialize(doc interfaces.OutputDocument) []byte {
	var b strings.Builder
	b.WriteString("---\n")
	writeField(&b, "title", quote(doc.Title))
	writeField(&b, "description", quote(doc.Description))
	writeField(&b, "publicationDate", dateScalar(doc.PublicationDate))
	if doc.UpdatedDate != "" {
		writeField(&b, "updatedDate", dateScalar(doc.UpdatedDate))
	}
	if doc.HeroImage != "" {
		writeField(&b, "heroImage", quote(doc.HeroImage))
	}
	writeField(&b, "heroAltText", quote(doc.HeroAltText))
	writeField(&b, "category", quote(doc.Category))
	writeField(&b, "tags", flowList(doc.Tags))
	writeField(&b, "featured", strconv.FormatBool(doc.Featured))
	writeField(&b, "draft", strconv.FormatBool(doc.Draft))
	b.WriteString("---\n\n")
	if body := strings.TrimSpace(doc.Body); body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func quote(value string) string {
	return `"` + quoteEscaper.Replace(value) + `"`
}

// dateScalar leaves ISO dates bare so the downstream parser reads them as dates.
func dateScalar(value string) string {
	if isoDateRe.MatchString(value) {
		return value
	}
	return quote(value)
}

func flowList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, quote(value))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
