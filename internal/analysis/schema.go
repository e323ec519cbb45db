package analysis

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas for oracle responses. Model output is validated against these
// before unmarshaling; a schema violation is treated the same as any other
// oracle failure.
const (
	requirementsSchema = `{
		"type": "object",
		"required": ["role_keywords", "hard_requirements", "soft_requirements"],
		"properties": {
			"role_title": {"type": ["string", "null"]},
			"role_keywords": {"type": "array", "items": {"type": "string"}},
			"hard_requirements": {
				"type": "object",
				"properties": {
					"min_experience_years": {"type": ["number", "null"]},
					"required_skills": {"type": ["array", "null"], "items": {"type": "string"}},
					"english_level": {"type": ["string", "null"]}
				}
			},
			"soft_requirements": {
				"type": "object",
				"properties": {
					"traits": {"type": ["array", "null"], "items": {"type": "string"}},
					"preferred": {"type": ["array", "null"], "items": {"type": "string"}}
				}
			}
		}
	}`

	fitSchema = `{
		"type": "object",
		"required": ["fit_score"],
		"properties": {
			"fit_score": {"type": "number"},
			"strengths": {"type": ["array", "null"], "items": {"type": "string"}},
			"risks": {"type": ["array", "null"], "items": {"type": "string"}},
			"verdict": {"type": ["string", "null"]}
		}
	}`
)

// validateResponse checks a raw JSON document against a schema string and
// returns a single error summarizing all field violations.
func validateResponse(schema, document string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var details []string
	for _, desc := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return fmt.Errorf("response failed schema validation: %s", strings.Join(details, "; "))
}
