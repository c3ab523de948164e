package generator

import (
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-vaultsync/internal/markdown"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

const dateLayout = "2006-01-02"

// Defaults are the values substituted when a document omits them.
type Defaults struct {
	Tag               string
	DescriptionPrefix string
}

// BuildOutput assembles the output record for a parsed document. Hero image
// and body are left for the emitter since they depend on filesystem state.
func BuildOutput(parsed interfaces.ParsedDocument, sourceName, slug string, categorizer *markdown.Categorizer, defaults Defaults, now time.Time) (interfaces.OutputDocument, markdown.CategoryDecision) {
	fm := parsed.FrontMatter

	title := firstNonEmpty(fm.Title, parsed.Title, titleFromFilename(sourceName))

	description := fm.ResolvedDescription()
	if description == "" {
		description = strings.TrimSpace(strings.TrimSpace(defaults.DescriptionPrefix) + " " + title)
	}

	published := fm.ResolvedPublicationDate()
	if published == "" {
		published = now.Format(dateLayout)
	}

	decision := categorizer.Resolve(fm.Category, fm.Tags)

	return interfaces.OutputDocument{
		Slug:            slug,
		Title:           title,
		Description:     description,
		PublicationDate: published,
		UpdatedDate:     fm.UpdatedDate,
		HeroAltText:     fm.HeroAltText,
		Category:        decision.Category,
		Tags:            markdown.ResolveTags(fm.Tags, defaults.Tag),
		Featured:        fm.Featured,
		Draft:           fm.Draft,
	}, decision
}

func titleFromFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
