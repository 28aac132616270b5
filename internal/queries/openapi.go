package queries

import "github.com/JaimeStill/caregate/pkg/openapi"

type querySpec struct {
	Create       *openapi.Operation
	List         *openapi.Operation
	Find         *openapi.Operation
	Search       *openapi.Operation
	ListTriaged  *openapi.Operation
	ListUrgent   *openapi.Operation
	UpdateTriage *openapi.Operation
	Schemas      map[string]*openapi.Schema
}

var (
	statusSchema = &openapi.Schema{
		Type: "string",
		Enum: []any{"pending", "processing", "needs_review", "approved", "rejected", "completed"},
	}
	triageSchema = &openapi.Schema{
		Type: "string",
		Enum: []any{"low", "medium", "high", "urgent"},
	}
	scoreMin = 0.0
	scoreMax = 1.0
)

var idParam = openapi.PathParam("id", "Query ID")

var pageParams = []*openapi.Parameter{
	openapi.QueryParam("page", "integer", "Page number", false),
	openapi.QueryParam("page_size", "integer", "Results per page", false),
	openapi.QueryParam("limit", "integer", "Results per page (alternative to page_size)", false),
	openapi.QueryParam("offset", "integer", "Rows to skip (alternative to page)", false),
	openapi.QueryParam("search", "string", "Search query text", false),
	openapi.QueryParam("sort", "string", "Sort fields, e.g. -CreatedAt", false),
}

var filterParams = []*openapi.Parameter{
	openapi.QueryParam("status", "string", "Filter by status", false),
	openapi.QueryParam("triage_level", "string", "Filter by triage level", false),
}

var spec = querySpec{
	Create: &openapi.Operation{
		Summary:     "Submit a medical query",
		Description: "Runs enhancement and safety scoring, then derives triage and status.",
		RequestBody: openapi.RequestBodyJSON("QueryCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Evaluated query", "Query"),
			400: openapi.ResponseRef("BadRequest"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
	List: &openapi.Operation{
		Summary:    "List queries",
		Parameters: append(append([]*openapi.Parameter{}, pageParams...), filterParams...),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of queries", "QueryPage"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a query",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Query", "Query"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search queries",
		RequestBody: openapi.RequestBodyJSON("PageRequest", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of queries", "QueryPage"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
	ListTriaged: &openapi.Operation{
		Summary:    "List triaged queries",
		Parameters: append(append([]*openapi.Parameter{}, pageParams...), filterParams...),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of queries", "QueryPage"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
	ListUrgent: &openapi.Operation{
		Summary:    "List urgent queries",
		Parameters: pageParams,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of queries", "QueryPage"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
	UpdateTriage: &openapi.Operation{
		Summary:     "Override a query's triage level",
		Description: "Urgent forces the query into review. Other levels leave status unchanged.",
		Parameters:  []*openapi.Parameter{idParam},
		RequestBody: openapi.RequestBodyJSON("TriageCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated query", "Query"),
			400: openapi.ResponseRef("BadRequest"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Query": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "string", Format: "uuid"},
				"query_text":     {Type: "string"},
				"enhanced_query": {Type: "string"},
				"status":         statusSchema,
				"triage_level":   triageSchema,
				"safety_score":   {Type: "number", Minimum: &scoreMin, Maximum: &scoreMax},
				"user_id":        {Type: "string", Format: "uuid"},
				"created_at":     {Type: "string", Format: "date-time"},
				"updated_at":     {Type: "string", Format: "date-time"},
			},
		},
		"QueryCommand": {
			Type:     "object",
			Required: []string{"query_text"},
			Properties: map[string]*openapi.Schema{
				"query_text": {Type: "string"},
				"user_id":    {Type: "string", Format: "uuid"},
			},
		},
		"TriageCommand": {
			Type:     "object",
			Required: []string{"triage_level"},
			Properties: map[string]*openapi.Schema{
				"triage_level": triageSchema,
			},
		},
		"QueryPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Query")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	},
}
