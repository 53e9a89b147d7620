package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema defines the structure for input/output schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties"`
	PatternProperties    map[string]Property `json:"patternProperties,omitempty"`
}

type Property struct {
	Type        string              `json:"type,omitempty"`
	Description string              `json:"description,omitempty"`
	Default     interface{}         `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Enum        []string            `json:"enum,omitempty"`
	Pattern     *string             `json:"pattern,omitempty"`
	MinLength   *int                `json:"minLength,omitempty"`
	MaxLength   *int                `json:"maxLength,omitempty"`
	Items       *Property           `json:"items,omitempty"`      // For array validation
	Properties  map[string]Property `json:"properties,omitempty"` // For nested objects
	Required    []string            `json:"required,omitempty"`   // For nested objects
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// gojsonschema error types mapped onto our codes.
var errorCodes = map[string]string{
	"required":                        "REQUIRED_FIELD_MISSING",
	"invalid_type":                    "INVALID_TYPE",
	"additional_property_not_allowed": "EXTRA_FIELD",
	"string_gte":                      "MIN_LENGTH_VIOLATION",
	"string_lte":                      "MAX_LENGTH_VIOLATION",
	"pattern":                         "PATTERN_MISMATCH",
	"enum":                            "INVALID_ENUM_VALUE",
	"number_gte":                      "MINIMUM_VIOLATION",
	"number_lte":                      "MAXIMUM_VIOLATION",
	"number_gt":                       "MINIMUM_VIOLATION",
	"number_lt":                       "MAXIMUM_VIOLATION",
}

var compiled sync.Map // schema JSON -> *gojsonschema.Schema

// ValidateInput validates input against JSON schema with detailed errors
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	raw, err := json.Marshal(schema)
	if err != nil {
		return schemaFailure(err)
	}
	if input == nil {
		input = map[string]interface{}{}
	}
	return validate(string(raw), gojsonschema.NewGoLoader(input))
}

// ValidateDocument validates an arbitrary decoded or raw JSON document
// against a schema given as JSON text.
func ValidateDocument(schemaJSON string, document interface{}) *ValidationResult {
	var loader gojsonschema.JSONLoader
	switch doc := document.(type) {
	case []byte:
		loader = gojsonschema.NewBytesLoader(doc)
	case json.RawMessage:
		loader = gojsonschema.NewBytesLoader(doc)
	case string:
		loader = gojsonschema.NewStringLoader(doc)
	default:
		loader = gojsonschema.NewGoLoader(doc)
	}
	return validate(schemaJSON, loader)
}

func validate(schemaJSON string, document gojsonschema.JSONLoader) *ValidationResult {
	schema, err := compile(schemaJSON)
	if err != nil {
		return schemaFailure(err)
	}

	result, err := schema.Validate(document)
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{
			Field:   "(root)",
			Message: fmt.Sprintf("document is not valid JSON: %v", err),
			Code:    "INVALID_DOCUMENT",
		}}}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, toValidationError(re))
	}
	return &ValidationResult{Valid: result.Valid(), Errors: errs}
}

func compile(schemaJSON string) (*gojsonschema.Schema, error) {
	if cached, ok := compiled.Load(schemaJSON); ok {
		return cached.(*gojsonschema.Schema), nil
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, err
	}
	compiled.Store(schemaJSON, schema)
	return schema, nil
}

func toValidationError(re gojsonschema.ResultError) ValidationError {
	field := re.Field()
	switch re.Type() {
	case "required", "additional_property_not_allowed":
		if prop, ok := re.Details()["property"].(string); ok {
			if field == "(root)" || field == "" {
				field = prop
			} else {
				field = field + "." + prop
			}
		}
	}

	code, ok := errorCodes[re.Type()]
	if !ok {
		code = strings.ToUpper(re.Type())
	}

	return ValidationError{
		Field:   field,
		Message: re.Description(),
		Code:    code,
	}
}

func schemaFailure(err error) *ValidationResult {
	return &ValidationResult{Errors: []ValidationError{{
		Field:   "(schema)",
		Message: fmt.Sprintf("invalid schema: %v", err),
		Code:    "INVALID_SCHEMA",
	}}}
}

// GetSchemaFromJSON parses JSON schema from string
func GetSchemaFromJSON(schemaJSON string) (JSONSchema, error) {
	var schema JSONSchema
	err := json.Unmarshal([]byte(schemaJSON), &schema)
	return schema, err
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// GetErrorsForField returns errors for a specific field
func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field || strings.HasPrefix(err.Field, field+".") {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone validates basic phone number format
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateURL validates URL format
func ValidateURL(url string) bool {
	return urlPattern.MatchString(url)
}

func Float64Ptr(v float64) *float64 { return &v }

func IntPtr(v int) *int { return &v }

func StringPtr(v string) *string { return &v }
