package runstage

import "research-crew/internal/common/validation"

// GetInputSchema describes the job variables every pipeline job carries.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"request"},
		Properties: map[string]validation.Property{
			"request": {
				Type:     "object",
				Required: []string{"targetName", "industry"},
				Properties: map[string]validation.Property{
					"targetName":       {Type: "string", MinLength: validation.IntPtr(1)},
					"industry":         {Type: "string", MinLength: validation.IntPtr(1)},
					"keyDecisionMaker": {Type: "string"},
					"position":         {Type: "string"},
					"milestone":        {Type: "string"},
				},
			},
			"stageOutputs": {
				Type:        "object",
				Description: "Stage name to output text of the stages run so far",
			},
		},
		AdditionalProperties: true,
	}
}
