package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func objectiveSchema() JSONSchema {
	return JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"organization_type": {Type: "string"},
			"objectives": {
				Type:  "array",
				Items: &Property{Type: "string"},
			},
		},
		Required:             []string{"objectives"},
		AdditionalProperties: true,
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantErr    bool
		wantValid  bool
		wantFields []string
	}{
		{
			name:      "valid document",
			raw:       `{"organization_type":"retail","objectives":["growth"]}`,
			wantValid: true,
		},
		{
			name:      "extra keys allowed",
			raw:       `{"objectives":[],"note":"x"}`,
			wantValid: true,
		},
		{
			name:       "non-string objective",
			raw:        `{"objectives":["growth", 7]}`,
			wantValid:  false,
			wantFields: []string{"objectives"},
		},
		{
			name:       "missing required key",
			raw:        `{"organization_type":"retail"}`,
			wantValid:  false,
			wantFields: []string{"(root)"},
		},
		{
			name:    "malformed json",
			raw:     `{"objectives":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateJSON(tt.raw, objectiveSchema())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			for _, field := range tt.wantFields {
				assert.True(t, result.HasErrors(field), "expected error on %s, got %v", field, result.GetErrorMessages())
			}
		})
	}
}
