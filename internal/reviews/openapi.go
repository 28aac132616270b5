package reviews

import "github.com/JaimeStill/caregate/pkg/openapi"

type reviewSpec struct {
	Generate *openapi.Operation
	Pending  *openapi.Operation
	Decide   *openapi.Operation
	Latest   *openapi.Operation
	Schemas  map[string]*openapi.Schema
}

var spec = reviewSpec{
	Generate: &openapi.Operation{
		Summary:     "Generate a response for review",
		Description: "Valid while the query is processing or in review. Moves the query into review.",
		RequestBody: openapi.RequestBodyJSON("GenerateCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Drafted response", "Review"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Pending: &openapi.Operation{
		Summary: "List responses awaiting review",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("limit", "integer", "Results per page (alternative to page_size)", false),
			openapi.QueryParam("offset", "integer", "Rows to skip (alternative to page)", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of reviews", "ReviewPage"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
	Decide: &openapi.Operation{
		Summary:     "Approve or reject a response",
		Description: "Doctors only. Deciding again overwrites the previous decision.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Response ID")},
		RequestBody: openapi.RequestBodyJSON("DecideCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Decided review", "Review"),
			400: openapi.ResponseRef("BadRequest"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Latest: &openapi.Operation{
		Summary:    "Get the latest response for a query",
		Parameters: []*openapi.Parameter{openapi.PathParam("queryId", "Query ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Latest review", "Review"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Review": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "string", Format: "uuid"},
				"query_id":      {Type: "string", Format: "uuid"},
				"query_text":    {Type: "string"},
				"response_text": {Type: "string"},
				"is_approved":   {Type: "boolean"},
				"doctor_notes":  {Type: "string"},
				"status":        {Type: "string"},
				"created_at":    {Type: "string", Format: "date-time"},
				"updated_at":    {Type: "string", Format: "date-time"},
			},
		},
		"GenerateCommand": {
			Type:     "object",
			Required: []string{"query_id"},
			Properties: map[string]*openapi.Schema{
				"query_id": {Type: "string", Format: "uuid"},
			},
		},
		"DecideCommand": {
			Type:     "object",
			Required: []string{"is_approved"},
			Properties: map[string]*openapi.Schema{
				"is_approved":  {Type: "boolean"},
				"doctor_notes": {Type: "string"},
			},
		},
		"ReviewPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Review")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	},
}
