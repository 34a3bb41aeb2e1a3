// internal/services/outreach/schema.go
package outreach

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"
)

// messageSchema constrains the model to the outreach message shape.
var messageSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"subject_line": {
			Type:        genai.TypeString,
			Description: "Compelling subject that references their business (max 60 chars).",
		},
		"greeting": {
			Type:        genai.TypeString,
			Description: "Personalized greeting using the decision maker hint.",
		},
		"opening": {
			Type:        genai.TypeString,
			Description: "Opening paragraph that shows you researched them, referencing specific insights.",
		},
		"value_proposition": {
			Type:        genai.TypeString,
			Description: "How your hardware solutions solve their specific challenges.",
		},
		"specific_offer": {
			Type:        genai.TypeString,
			Description: "Concrete hardware solutions based on their identified needs.",
		},
		"call_to_action": {
			Type:        genai.TypeString,
			Description: "Clear, low-pressure next step (consultation, demo, quote).",
		},
		"closing": {
			Type:        genai.TypeString,
			Description: "Professional closing that reinforces value.",
		},
	},
	Required: []string{
		"subject_line",
		"greeting",
		"opening",
		"value_proposition",
		"specific_offer",
		"call_to_action",
		"closing",
	},
}

// messageValidationSchema revalidates the model output before unmarshal. A
// message with any component missing would render as a broken email, so all
// seven fields are required.
var messageValidationSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"subject_line":      map[string]interface{}{"type": "string"},
		"greeting":          map[string]interface{}{"type": "string"},
		"opening":           map[string]interface{}{"type": "string"},
		"value_proposition": map[string]interface{}{"type": "string"},
		"specific_offer":    map[string]interface{}{"type": "string"},
		"call_to_action":    map[string]interface{}{"type": "string"},
		"closing":           map[string]interface{}{"type": "string"},
	},
	"required": []interface{}{
		"subject_line",
		"greeting",
		"opening",
		"value_proposition",
		"specific_offer",
		"call_to_action",
		"closing",
	},
}

func validateMessageJSON(raw string) error {
	schemaLoader := gojsonschema.NewGoLoader(messageValidationSchema)
	documentLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("message validation failed: %v", errs)
	}

	return nil
}
