package interfaces

// FrontMatter models the metadata recognised in a vault document. Legacy keys
// (date, summary) are kept separately so callers can apply the modern-wins
// fallback rules explicitly.
type FrontMatter struct {
	Title           string
	Description     string
	PublicationDate string
	UpdatedDate     string
	HeroImage       string
	HeroAltText     string
	Category        string
	Tags            []string
	Featured        bool
	Draft           bool
	Slug            string

	// Date is the legacy alias for PublicationDate.
	Date string
	// Summary is the legacy alias for Description.
	Summary string

	// Raw holds every key decoded from the metadata block(s).
	Raw map[string]any
}

// Empty reports whether no metadata key was recognised.
func (fm FrontMatter) Empty() bool {
	return len(fm.Raw) == 0
}

// ResolvedPublicationDate applies the modern-wins rule for the publication date.
func (fm FrontMatter) ResolvedPublicationDate() string {
	if fm.PublicationDate != "" {
		return fm.PublicationDate
	}
	return fm.Date
}

// ResolvedDescription applies the modern-wins rule for the description.
func (fm FrontMatter) ResolvedDescription() string {
	if fm.Description != "" {
		return fm.Description
	}
	return fm.Summary
}

// SourceDocument is one vault file read for a sync run.
type SourceDocument struct {
	// Path is the slash separated path relative to the vault directory.
	Path string
	// Name is the base filename including the .md extension.
	Name   string
	Source []byte
}

// ParsedDocument is the result of the frontmatter parsing stage.
type ParsedDocument struct {
	Title       string
	FrontMatter FrontMatter
	Body        string
	// LegacyBlock is set when a second metadata block was merged in.
	LegacyBlock bool
}

// OutputDocument is the record emitted for the static site content collection.
type OutputDocument struct {
	Slug            string
	Title           string
	Description     string
	PublicationDate string
	UpdatedDate     string
	HeroImage       string
	HeroAltText     string
	Category        string
	Tags            []string
	Featured        bool
	Draft           bool
	Body            string
}

// ImageRefs lists the images referenced by a document body.
type ImageRefs struct {
	// Local keeps every local embed in body order, duplicates included.
	Local []string
	// External holds http(s) URLs in first-seen order without duplicates.
	External []string
}
