package generator

import (
	"errors"
	"testing"

	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

func TestSchemaValidatorAcceptsCompleteRecord(t *testing.T) {
	validator, err := newSchemaValidator([]string{"tech", "thoughts"})
	if err != nil {
		t.Fatalf("newSchemaValidator: %v", err)
	}
	doc := interfaces.OutputDocument{
		Title:           "T",
		Description:     "D",
		PublicationDate: "2024-01-01",
		HeroAltText:     "alt",
		Category:        "tech",
		Tags:            []string{"go"},
	}
	if err := validator.Validate(doc); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}
}

func TestSchemaValidatorRejectsUnknownCategory(t *testing.T) {
	validator, err := newSchemaValidator([]string{"tech"})
	if err != nil {
		t.Fatalf("newSchemaValidator: %v", err)
	}
	doc := interfaces.OutputDocument{
		Title:           "T",
		Description:     "D",
		PublicationDate: "2024-01-01",
		HeroAltText:     "alt",
		Category:        "gardening",
	}
	err = validator.Validate(doc)
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
}

func TestSchemaValidatorRequiresAltText(t *testing.T) {
	validator, err := newSchemaValidator([]string{"tech"})
	if err != nil {
		t.Fatalf("newSchemaValidator: %v", err)
	}
	err = validator.Validate(interfaces.OutputDocument{Title: "T", Description: "D", PublicationDate: "2024-01-01", Category: "tech"})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected missing alt text to fail, got %v", err)
	}
}
