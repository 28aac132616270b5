package openapi

import "maps"

var errorBody = map[string]*MediaType{
	"application/json": {
		Schema: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"error": {Type: "string", Description: "Error message"},
			},
		},
	},
}

// NewComponents creates Components with shared schemas and error responses.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields. Prefix with - for descending. Example: -CreatedAt"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":   {Description: "Invalid request", Content: errorBody},
			"Unauthorized": {Description: "Bearer token missing or invalid", Content: errorBody},
			"Forbidden":    {Description: "Role not permitted or not recognized", Content: errorBody},
			"NotFound":     {Description: "Resource not found", Content: errorBody},
			"Conflict":     {Description: "Operation not valid in the current state", Content: errorBody},
			"Gone":         {Description: "Resource expired", Content: errorBody},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
