package meeting

import (
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/pkg/validator"
)

// Parse failure reasons, also used as the fallback metric label
const (
	ReasonCallFailed   = "call_failed"
	ReasonNoJSONObject = "no_json_object"
	ReasonInvalidJSON  = "invalid_json"
	ReasonInvalidShape = "invalid_shape"
)

// ParseFailure reports why a generative answer could not be used
type ParseFailure struct {
	Reason string
	Err    error
}

func (f *ParseFailure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("analysis payload %s: %v", f.Reason, f.Err)
	}
	return "analysis payload " + f.Reason
}

func (f *ParseFailure) Unwrap() error {
	return f.Err
}

// Parser extracts and validates the structured payload of a generative answer
type Parser struct {
	validator *validator.CustomValidator
}

// NewParser creates a new Parser instance
func NewParser(v *validator.CustomValidator) *Parser {
	if v == nil {
		v = validator.New()
	}
	return &Parser{validator: v}
}

// Parse takes the text between the first '{' and the last '}' of raw, decodes
// it and validates its shape. Any failure is a *ParseFailure.
func (p *Parser) Parse(raw string) (*entities.AnalysisResult, error) {
	payload, ok := extractJSON(raw)
	if !ok {
		return nil, &ParseFailure{Reason: ReasonNoJSONObject}
	}

	var result entities.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stdErrors.As(err, &typeErr) {
			return nil, &ParseFailure{Reason: ReasonInvalidShape, Err: err}
		}
		return nil, &ParseFailure{Reason: ReasonInvalidJSON, Err: err}
	}

	result.Normalize()
	if err := p.validator.Validate(result); err != nil {
		return nil, &ParseFailure{Reason: ReasonInvalidShape, Err: stdErrors.New(validator.Describe(err))}
	}

	return &result, nil
}

// extractJSON returns the substring from the first '{' through the last '}'
func extractJSON(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return content[start : end+1], true
}
