package markdown

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseDocumentHeadingBeforeMetadata(t *testing.T) {
	doc := ParseDocument("# My Trip\n---\ntags: [Travel]\n---\n![[photo.jpg]]\nBody text.")

	if doc.Title != "My Trip" {
		t.Fatalf("expected title My Trip, got %q", doc.Title)
	}
	if !reflect.DeepEqual(doc.FrontMatter.Tags, []string{"Travel"}) {
		t.Fatalf("unexpected tags %#v", doc.FrontMatter.Tags)
	}
	if got := strings.TrimSpace(doc.Body); got != "![[photo.jpg]]\nBody text." {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestParseDocumentWithoutMetadataKeepsBody(t *testing.T) {
	source := "Just some prose.\n\nMore {text} here.\n"
	doc := ParseDocument(source)

	if !doc.FrontMatter.Empty() {
		t.Fatalf("expected empty frontmatter, got %#v", doc.FrontMatter.Raw)
	}
	if doc.Title != "" {
		t.Fatalf("expected no title, got %q", doc.Title)
	}
	if doc.Body != source {
		t.Fatalf("expected body preserved, got %q", doc.Body)
	}
}

func TestParseDocumentHeadingAfterMetadata(t *testing.T) {
	doc := ParseDocument("---\ndescription: Short\n---\n# Later Title\nParagraph.")

	if doc.Title != "Later Title" {
		t.Fatalf("expected heading after metadata as title, got %q", doc.Title)
	}
	if doc.FrontMatter.Description != "Short" {
		t.Fatalf("expected description, got %q", doc.FrontMatter.Description)
	}
	if got := strings.TrimSpace(doc.Body); got != "Paragraph." {
		t.Fatalf("expected heading removed from body, got %q", got)
	}
}

func TestParseDocumentStripsDuplicatedHeading(t *testing.T) {
	doc := ParseDocument("# Title\n---\ntitle: Title\n---\n\n# Title\nContent")

	if doc.Title != "Title" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
	if got := strings.TrimSpace(doc.Body); got != "Content" {
		t.Fatalf("expected duplicated heading stripped, got %q", got)
	}
}

func TestParseDocumentLegacyBlockFillsMissingKeys(t *testing.T) {
	source := strings.Join([]string{
		"---",
		"title: Modern",
		"date: 2024-01-02",
		"---",
		"# Modern",
		"---",
		"summary: Old summary",
		"date: 2023-05-06",
		"---",
		"Body",
	}, "\n")

	doc := ParseDocument(source)

	if doc.Title != "Modern" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
	if doc.FrontMatter.Summary != "Old summary" {
		t.Fatalf("expected legacy summary, got %q", doc.FrontMatter.Summary)
	}
	if doc.FrontMatter.Date != "2024-01-02" {
		t.Fatalf("expected first block date to win, got %q", doc.FrontMatter.Date)
	}
	if got := strings.TrimSpace(doc.Body); got != "Body" {
		t.Fatalf("expected legacy block removed, got %q", got)
	}
	if !doc.LegacyBlock {
		t.Fatalf("expected legacy block flag")
	}
}

func TestParseDocumentIgnoresProseBetweenRules(t *testing.T) {
	source := "Intro\n\n---\n\nNot metadata at all\n\n---\n"
	doc := ParseDocument(source)

	if !doc.FrontMatter.Empty() {
		t.Fatalf("expected no metadata, got %#v", doc.FrontMatter.Raw)
	}
	if doc.Body != source {
		t.Fatalf("expected body untouched, got %q", doc.Body)
	}
}

func TestParseDocumentMalformedMetadataYieldsEmpty(t *testing.T) {
	doc := ParseDocument("---\ntags: [unterminated\n---\nBody")

	if len(doc.FrontMatter.Tags) != 0 || doc.FrontMatter.Title != "" {
		t.Fatalf("expected empty frontmatter, got %#v", doc.FrontMatter)
	}
	if !strings.Contains(doc.Body, "Body") {
		t.Fatalf("expected body retained, got %q", doc.Body)
	}
}

func TestFrontMatterLegacyFallbacks(t *testing.T) {
	doc := ParseDocument("---\ndate: 2023-03-04\nsummary: From summary\n---\nText")
	fm := doc.FrontMatter
	if fm.ResolvedPublicationDate() != "2023-03-04" {
		t.Fatalf("expected legacy date fallback, got %q", fm.ResolvedPublicationDate())
	}
	if fm.ResolvedDescription() != "From summary" {
		t.Fatalf("expected legacy summary fallback, got %q", fm.ResolvedDescription())
	}

	doc = ParseDocument("---\npublicationDate: 2024-06-07\ndate: 2023-03-04\ndescription: Modern\nsummary: Legacy\n---\nText")
	fm = doc.FrontMatter
	if fm.ResolvedPublicationDate() != "2024-06-07" {
		t.Fatalf("expected modern date to win, got %q", fm.ResolvedPublicationDate())
	}
	if fm.ResolvedDescription() != "Modern" {
		t.Fatalf("expected modern description to win, got %q", fm.ResolvedDescription())
	}
}

func TestFrontMatterCoercion(t *testing.T) {
	doc := ParseDocument(strings.Join([]string{
		"---",
		"tags: \"#books, reading ,\"",
		"featured: \"true\"",
		"draft: yes",
		"publicationDate: \"Jan 5, 2024\"",
		"updatedDate: someday",
		"---",
		"Body",
	}, "\n"))
	fm := doc.FrontMatter

	if !reflect.DeepEqual(fm.Tags, []string{"books", "reading"}) {
		t.Fatalf("unexpected tags %#v", fm.Tags)
	}
	if !fm.Featured {
		t.Fatalf("expected featured from string")
	}
	if !fm.Draft {
		t.Fatalf("expected draft from yes")
	}
	if fm.PublicationDate != "2024-01-05" {
		t.Fatalf("expected normalised date, got %q", fm.PublicationDate)
	}
	if fm.UpdatedDate != "someday" {
		t.Fatalf("expected unparseable date kept verbatim, got %q", fm.UpdatedDate)
	}
}

func TestHasLeadingHeading(t *testing.T) {
	if !HasLeadingHeading("# Title\nBody") {
		t.Fatalf("expected leading heading")
	}
	if HasLeadingHeading("Body\n# Title") || HasLeadingHeading("## Sub\n") {
		t.Fatalf("expected no leading top-level heading")
	}
}
