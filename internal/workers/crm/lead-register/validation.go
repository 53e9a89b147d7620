package leadregister

import "leadflow/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"email"},
		Properties: map[string]validation.Property{
			"email": {
				Type:        "string",
				Description: "Email address of the lead",
				MinLength:   validation.IntPtr(5),
				MaxLength:   validation.IntPtr(255),
			},
			"firstName": {
				Type:      "string",
				MaxLength: validation.IntPtr(100),
			},
			"lastName": {
				Type:      "string",
				MaxLength: validation.IntPtr(100),
			},
			"phone": {
				Type:      "string",
				MaxLength: validation.IntPtr(50),
			},
			"company": {
				Type:      "string",
				MaxLength: validation.IntPtr(200),
			},
			"industry": {
				Type:      "string",
				MaxLength: validation.IntPtr(64),
			},
			"message": {
				Type:        "string",
				Description: "Free-text note from the form",
				MaxLength:   validation.IntPtr(5000),
			},
			"formId": {
				Type:      "string",
				MaxLength: validation.IntPtr(100),
			},
			"submissionId": {
				Type:        "string",
				Description: "Form provider submission id, used for deduplication",
				MaxLength:   validation.IntPtr(200),
			},
			"source": {
				Type:      "string",
				MaxLength: validation.IntPtr(100),
			},
		},
		AdditionalProperties: true,
	}
}
