package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

// ErrSchemaValidation is returned when an output record does not satisfy the
// content collection schema.
var ErrSchemaValidation = errors.New("generator: output schema validation failed")

const schemaResource = "blog-collection.json"

// contentSchema mirrors the content collection schema the site build enforces.
func contentSchema(categories []string) map[string]any {
	enum := make([]any, 0, len(categories))
	for _, category := range categories {
		enum = append(enum, category)
	}
	return map[string]any{
		"$schema":  "https://json-schema.org/draft/2020-12/schema",
		"type":     "object",
		"required": []any{"title", "description", "publicationDate", "heroAltText", "category"},
		"properties": map[string]any{
			"title":           map[string]any{"type": "string", "minLength": 1},
			"description":     map[string]any{"type": "string", "minLength": 1},
			"publicationDate": map[string]any{"type": "string", "minLength": 1},
			"updatedDate":     map[string]any{"type": "string"},
			"heroImage":       map[string]any{"type": "string", "minLength": 1},
			"heroAltText":     map[string]any{"type": "string", "minLength": 1},
			"category":        map[string]any{"type": "string", "enum": enum},
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"featured": map[string]any{"type": "boolean"},
			"draft":    map[string]any{"type": "boolean"},
		},
	}
}

type schemaValidator struct {
	schema *jsonschema.Schema
}

func newSchemaValidator(categories []string) (*schemaValidator, error) {
	encoded, err := json.Marshal(contentSchema(categories))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaResource, bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("generator: add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("generator: compile schema: %w", err)
	}
	return &schemaValidator{schema: schema}, nil
}

// Validate checks the metadata of doc as the site build would read it.
func (v *schemaValidator) Validate(doc interfaces.OutputDocument) error {
	if err := v.schema.Validate(metadataPayload(doc)); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%w: %s", ErrSchemaValidation, strings.Join(schemaIssues(validationErr), "; "))
		}
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}

func metadataPayload(doc interfaces.OutputDocument) map[string]any {
	tags := make([]any, 0, len(doc.Tags))
	for _, tag := range doc.Tags {
		tags = append(tags, tag)
	}
	payload := map[string]any{
		"title":           doc.Title,
		"description":     doc.Description,
		"publicationDate": doc.PublicationDate,
		"heroAltText":     doc.HeroAltText,
		"category":        doc.Category,
		"tags":            tags,
		"featured":        doc.Featured,
		"draft":           doc.Draft,
	}
	if doc.UpdatedDate != "" {
		payload["updatedDate"] = doc.UpdatedDate
	}
	if doc.HeroImage != "" {
		payload["heroImage"] = doc.HeroImage
	}
	return payload
}

func schemaIssues(err *jsonschema.ValidationError) []string {
	var issues []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			}
			issues = append(issues, location+": "+strings.TrimSpace(node.Message))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
