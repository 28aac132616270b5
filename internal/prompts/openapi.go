package prompts

import "github.com/JaimeStill/caregate/pkg/openapi"

type promptSpec struct {
	List         *openapi.Operation
	Stages       *openapi.Operation
	Find         *openapi.Operation
	Instructions *openapi.Operation
	Spec         *openapi.Operation
	Create       *openapi.Operation
	Update       *openapi.Operation
	Delete       *openapi.Operation
	Search       *openapi.Operation
	Activate     *openapi.Operation
	Deactivate   *openapi.Operation
	Schemas      map[string]*openapi.Schema
}

var stageSchema = &openapi.Schema{
	Type: "string",
	Enum: []any{"enhance", "score", "respond"},
}

var idParam = openapi.PathParam("id", "Prompt ID")

var stageParam = &openapi.Parameter{
	Name:     "stage",
	In:       "path",
	Required: true,
	Schema:   stageSchema,
}

var spec = promptSpec{
	List: &openapi.Operation{
		Summary: "List prompt overrides",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("stage", "string", "Filter by stage", false),
			openapi.QueryParam("name", "string", "Filter by name (contains)", false),
			openapi.QueryParam("active", "boolean", "Filter by active flag", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of prompts", "PromptPage"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
	Stages: &openapi.Operation{
		Summary: "List valid stages",
		Responses: map[int]*openapi.Response{
			200: {Description: "Stage names"},
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a prompt override",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prompt", "Prompt"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Instructions: &openapi.Operation{
		Summary:    "Get effective instructions for a stage",
		Parameters: []*openapi.Parameter{stageParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Stage content", "StageContent"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Spec: &openapi.Operation{
		Summary:    "Get the fixed output contract for a stage",
		Parameters: []*openapi.Parameter{stageParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Stage content", "StageContent"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create a prompt override",
		RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			403: openapi.ResponseRef("Forbidden"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update a prompt override",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated prompt", "Prompt"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a prompt override",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search prompt overrides",
		RequestBody: openapi.RequestBodyJSON("PageRequest", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of prompts", "PromptPage"),
		},
	},
	Activate: &openapi.Operation{
		Summary:    "Activate a prompt override for its stage",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Activated prompt", "Prompt"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Deactivate: &openapi.Operation{
		Summary:    "Deactivate a prompt override",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Deactivated prompt", "Prompt"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"stage":        stageSchema,
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
				"active":       {Type: "boolean"},
			},
		},
		"PromptCommand": {
			Type:     "object",
			Required: []string{"name", "stage", "instructions"},
			Properties: map[string]*openapi.Schema{
				"name":         {Type: "string"},
				"stage":        stageSchema,
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
			},
		},
		"PromptPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Prompt")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"StageContent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stage":   stageSchema,
				"content": {Type: "string"},
			},
		},
	},
}
