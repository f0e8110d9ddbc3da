package validation

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/ranganmag-api/internal/models"
)

var statusValues = []interface{}{
	models.StatusPublished,
	models.StatusDraft,
	models.StatusArchived,
}

// notBlank rejects strings made only of whitespace
var notBlank = validation.By(func(value interface{}) error {
	switch v := value.(type) {
	case string:
		if v != "" && strings.TrimSpace(v) == "" {
			return errors.New("cannot be blank")
		}
	case *string:
		if v != nil && strings.TrimSpace(*v) == "" {
			return errors.New("cannot be blank")
		}
	}
	return nil
})

// isDate checks the YYYY-MM-DD form used by the article date field
var isDate = validation.By(func(value interface{}) error {
	v, ok := value.(*string)
	if !ok || v == nil {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *v); err != nil {
		return errors.New("must be a date in YYYY-MM-DD format")
	}
	return nil
})

// ValidateCreate checks upload metadata. It runs before the file is stored.
func ValidateCreate(in *models.CreateArticleInput) error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, notBlank),
		validation.Field(&in.Author, validation.Required, notBlank),
	)
	return toValidationError(err, "Title and author are required")
}

// ValidatePatch checks an update. Supplied title/author must be non-empty and
// a supplied status must be one of the known values.
func ValidatePatch(p *models.ArticlePatch) error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.NilOrNotEmpty, notBlank),
		validation.Field(&p.Author, validation.NilOrNotEmpty, notBlank),
		validation.Field(&p.Status, validation.NilOrNotEmpty, validation.In(statusValues...).
			Error("must be one of: published, draft, archived")),
		validation.Field(&p.Date, isDate),
	)
	return toValidationError(err, "Invalid article fields")
}

func toValidationError(err error, message string) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make(map[string]string, len(fieldErrs))
	for name, fe := range fieldErrs {
		fields[name] = fe.Error()
	}
	return &models.ValidationError{Message: message, Fields: fields}
}
