package estimateimpact

import "leadflow/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"industry"},
		Properties: map[string]validation.Property{
			"industry": {
				Type:        "string",
				Description: "Industry tag selecting the calculator",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(64),
			},
			"values": {
				Type:        "object",
				Description: "Field id to numeric input",
			},
			"useDefaults": {
				Type:        "boolean",
				Description: "Fill missing fields with the industry defaults",
			},
		},
		// Process variables from earlier tasks share the job payload.
		AdditionalProperties: true,
	}
}
