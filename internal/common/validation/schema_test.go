package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func estimateSchema() JSONSchema {
	return JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"industry": {
				Type: "string",
				Enum: []string{"healthcare", "legal"},
			},
			"values": {
				Type: "object",
			},
			"note": {
				Type:      "string",
				MaxLength: IntPtr(5),
			},
			"staff": {
				Type:    "number",
				Minimum: Float64Ptr(0),
			},
		},
		Required:             []string{"industry"},
		AdditionalProperties: false,
	}
}

func TestValidateInput_Valid(t *testing.T) {
	result := ValidateInput(map[string]interface{}{
		"industry": "legal",
		"values":   map[string]interface{}{"attorneys": 3.0},
		"staff":    2,
	}, estimateSchema())

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateInput_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]interface{}
		field string
		code  string
	}{
		{"missing required", map[string]interface{}{}, "industry", "REQUIRED_FIELD_MISSING"},
		{"enum", map[string]interface{}{"industry": "retail"}, "industry", "INVALID_ENUM_VALUE"},
		{"type", map[string]interface{}{"industry": "legal", "values": "x"}, "values", "INVALID_TYPE"},
		{"extra", map[string]interface{}{"industry": "legal", "other": 1}, "other", "EXTRA_FIELD"},
		{"max length", map[string]interface{}{"industry": "legal", "note": "too long"}, "note", "MAX_LENGTH_VIOLATION"},
		{"minimum", map[string]interface{}{"industry": "legal", "staff": -1}, "staff", "MINIMUM_VIOLATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateInput(tt.input, estimateSchema())
			require.False(t, result.Valid)

			fieldErrs := result.GetErrorsForField(tt.field)
			require.NotEmpty(t, fieldErrs, "errors: %v", result.GetErrorMessages())
			assert.Equal(t, tt.code, fieldErrs[0].Code)
		})
	}
}

func TestValidateInput_NilInput(t *testing.T) {
	result := ValidateInput(nil, estimateSchema())
	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("industry"))
}

func TestValidateDocument(t *testing.T) {
	schema := `{
		"type": "object",
		"required": ["data"],
		"properties": {
			"data": {
				"type": "object",
				"required": ["fields"],
				"properties": {"fields": {"type": "array"}}
			}
		}
	}`

	ok := ValidateDocument(schema, []byte(`{"data":{"fields":[]}}`))
	assert.True(t, ok.Valid)

	missing := ValidateDocument(schema, `{"data":{}}`)
	require.False(t, missing.Valid)
	assert.True(t, missing.HasErrors("data.fields"))

	broken := ValidateDocument(schema, []byte(`{not json`))
	assert.False(t, broken.Valid)

	badSchema := ValidateDocument(`{"type": 12}`, map[string]interface{}{})
	require.False(t, badSchema.Valid)
	assert.Equal(t, "INVALID_SCHEMA", badSchema.Errors[0].Code)
}

func TestFormatValidators(t *testing.T) {
	assert.True(t, ValidateEmail("ops@example.com"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.True(t, ValidatePhone("+1 (555) 010-2030"))
	assert.False(t, ValidatePhone("123"))
	assert.True(t, ValidateURL("https://calendly.com/acme/strategy"))
	assert.False(t, ValidateURL("javascript:alert(1)"))
}
