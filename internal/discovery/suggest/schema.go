// Package suggest implements the search-suggestion pipeline: request
// building, the generative engines, the debounce/cancellation controller and
// the presentation state consumed by the UI layer.
package suggest

import (
	"google.golang.org/genai"

	"timescape_backend/internal/discovery/domain"
)

// suggestionsPayload is the wire shape of a structured-output response.
type suggestionsPayload struct {
	Suggestions []domain.SuggestionItem `json:"suggestions"`
}

// ResponseSchema describes the structured output the model must produce.
// Every place field is required except category, which the repair pass can
// derive locally when the model omits it.
func ResponseSchema() *genai.Schema {
	detailSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"label": {Type: genai.TypeString},
			"icon": {
				Type: genai.TypeString,
				Enum: []string{"calendar", "globe", "geology", "architecture", "growth", "time", "sparkles"},
			},
			"value": {Type: genai.TypeString},
		},
		Required: []string{"label", "icon", "value"},
	}

	placeSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":     {Type: genai.TypeString},
			"location": {Type: genai.TypeString, Description: "Human-readable place string"},
			"placeId":  {Type: genai.TypeString, Description: "Resolvable external place identifier"},
			"locationType": {
				Type:        genai.TypeString,
				Enum:        []string{"point", "area"},
				Description: "point for a single site or monument, area for a city, park or region",
			},
			"latitude":  {Type: genai.TypeNumber},
			"longitude": {Type: genai.TypeNumber},
			"zoomLevel": {Type: genai.TypeInteger, Description: "15-22 for point locations"},
			"description": {
				Type:        genai.TypeString,
				Description: "One or two sentences of historical context",
			},
			"category": {
				Type: genai.TypeString,
				Enum: []string{"ancient", "nature", "growth", "time"},
			},
			"details": {
				Type:        genai.TypeArray,
				Items:       detailSchema,
				Description: "2-4 details; exactly one must use the globe icon and name the country",
			},
		},
		Required: []string{
			"name", "location", "placeId", "locationType",
			"latitude", "longitude", "zoomLevel", "description", "details",
		},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"suggestions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"suggestion": {
							Type:        genai.TypeString,
							Description: "Refined query label, at most 8 words",
						},
						"place": placeSchema,
					},
					Required: []string{"suggestion", "place"},
				},
			},
		},
		Required: []string{"suggestions"},
	}
}
