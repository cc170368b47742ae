package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/content-quality/internal/improve"
	"github.com/jonathan/content-quality/internal/pipeline"
	"github.com/jonathan/content-quality/internal/sanitize"
	"github.com/jonathan/content-quality/internal/types"
)

// AssessRequest is the body of POST /assess
type AssessRequest struct {
	Content string             `json:"content" validate:"required"`
	Title   string             `json:"title"`
	Meta    types.Meta         `json:"meta"`
	Corpus  []types.CorpusItem `json:"corpus" validate:"max=500,dive"`
}

// ImproveRequest is the body of POST /improve. Missing options use
// improve.DefaultOptions.
type ImproveRequest struct {
	Content string           `json:"content" validate:"required"`
	Title   string           `json:"title"`
	Options *improve.Options `json:"options"`
}

// SanitizeRequest is the body of POST /sanitize. Missing options use
// sanitize.DefaultOptions.
type SanitizeRequest struct {
	HTML    string            `json:"html"`
	Options *sanitize.Options `json:"options"`
}

// SanitizeResponse is the result of POST /sanitize
type SanitizeResponse struct {
	HTML string `json:"html"`
}

// RenderRequest is the body of POST /render and POST /render/stream
type RenderRequest struct {
	Raw     string           `json:"raw"`
	Options pipeline.Options `json:"options"`
}

// DetectRequest is the body of POST /detect
type DetectRequest struct {
	Text string `json:"text"`
}

// DetectResponse reports the content format and the AI-style patterns found
type DetectResponse struct {
	Format     types.ContentFormat    `json:"format"`
	AIPatterns []types.AIPatternMatch `json:"ai_patterns"`
}

// DuplicatesRequest is the body of POST /duplicates
type DuplicatesRequest struct {
	Content string             `json:"content" validate:"required"`
	Corpus  []types.CorpusItem `json:"corpus" validate:"max=500,dive"`
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// decodeRequest reads a size-limited JSON body into dst and validates it
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrBodyTooLarge{Limit: tooLarge.Limit}
		}
		return &ErrInvalidBody{Cause: err}
	}
	if err := s.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError converts the first validator failure into ErrValidation
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return &ErrValidation{Field: field, Message: describeTag(fe)}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must have at most %s items", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fe.Tag()
	}
}
