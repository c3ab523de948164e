package markdown

import (
	"errors"
	"path"
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"
)

// ErrEmptySlug is returned when neither the filename nor an override yields a usable slug.
var ErrEmptySlug = errors.New("markdown: slug is empty")

var slugSeparatorRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases value, collapses every run of non-alphanumeric
// characters into a single hyphen, and trims hyphens at both ends.
func Slugify(value string) string {
	s := slugSeparatorRe.ReplaceAllString(strings.ToLower(value), "-")
	return strings.Trim(s, "-")
}

// SlugFromFilename derives the slug of a vault file from its base name.
func SlugFromFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return Slugify(strings.TrimSuffix(base, path.Ext(base)))
}

// ResolveSlug prefers an explicit override, normalised through go-slug, and
// falls back to the filename rule. The result is always filesystem safe.
func ResolveSlug(filename, override string) (string, error) {
	if candidate := strings.TrimSpace(override); candidate != "" {
		normalized, err := slug.Normalize(candidate)
		if err != nil || normalized == "" {
			normalized = candidate
		}
		if s := Slugify(normalized); s != "" {
			return s, nil
		}
	}
	if s := SlugFromFilename(filename); s != "" {
		return s, nil
	}
	return "", ErrEmptySlug
}
