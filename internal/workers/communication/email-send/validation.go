package emailsend

import "research-crew/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"recipient", "reportPath"},
		Properties: map[string]validation.Property{
			"recipient": {
				Type:        "string",
				Description: "Address the report is mailed to",
				MaxLength:   validation.IntPtr(255),
			},
			"reportPath": {
				Type:        "string",
				Description: "Path of the written report file",
				MinLength:   validation.IntPtr(1),
			},
			"target": {
				Type:        "string",
				Description: "Target organization named in subject and body",
			},
			"reportTimestamp": {
				Type:        "string",
				Description: "Report timestamp label",
			},
		},
		AdditionalProperties: true,
	}
}
