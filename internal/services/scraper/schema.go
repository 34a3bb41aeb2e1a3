// internal/services/scraper/schema.go
package scraper

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"
)

// insightSchema constrains the model to the insight record shape.
var insightSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"business_summary": {
			Type:        genai.TypeString,
			Description: "One clear sentence describing what this company does.",
		},
		"company_size_indicator": {
			Type:        genai.TypeString,
			Description: "small/medium/large based on mentions of employees, offices, scale.",
		},
		"key_insights": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "2-3 specific business insights that would help personalize a hardware sales pitch.",
		},
		"hardware_opportunity": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"workstations": {Type: genai.TypeBoolean},
				"servers":      {Type: genai.TypeBoolean},
				"networking":   {Type: genai.TypeBoolean},
				"storage":      {Type: genai.TypeBoolean},
				"peripherals":  {Type: genai.TypeBoolean},
			},
			Required: []string{"workstations", "servers", "networking", "storage", "peripherals"},
		},
		"decision_maker_hint": {
			Type:        genai.TypeString,
			Description: "Who likely makes IT purchasing decisions (IT Manager, CTO, Operations, etc.).",
		},
		"personalization_hook": {
			Type:        genai.TypeString,
			Description: "One specific detail about the company for personalized messaging.",
		},
	},
	Required: []string{
		"business_summary",
		"company_size_indicator",
		"key_insights",
		"hardware_opportunity",
		"decision_maker_hint",
		"personalization_hook",
	},
}

// insightValidationSchema revalidates the model output before unmarshal. The
// response schema above is enforced at generation time, but the returned text
// is still untrusted input.
var insightValidationSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"business_summary":       map[string]interface{}{"type": "string"},
		"company_size_indicator": map[string]interface{}{"type": "string"},
		"key_insights": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"hardware_opportunity": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"workstations": map[string]interface{}{"type": "boolean"},
				"servers":      map[string]interface{}{"type": "boolean"},
				"networking":   map[string]interface{}{"type": "boolean"},
				"storage":      map[string]interface{}{"type": "boolean"},
				"peripherals":  map[string]interface{}{"type": "boolean"},
			},
		},
		"decision_maker_hint":  map[string]interface{}{"type": "string"},
		"personalization_hook": map[string]interface{}{"type": "string"},
	},
	"required": []interface{}{
		"business_summary",
		"company_size_indicator",
		"key_insights",
		"hardware_opportunity",
	},
}

func validateInsightJSON(raw string) error {
	schemaLoader := gojsonschema.NewGoLoader(insightValidationSchema)
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
		return fmt.Errorf("insight validation failed: %v", errs)
	}

	return nil
}
