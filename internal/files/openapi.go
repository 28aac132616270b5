package files

import "github.com/JaimeStill/caregate/pkg/openapi"

type fileSpec struct {
	Upload      *openapi.Operation
	ListByQuery *openapi.Operation
	Find        *openapi.Operation
	Download    *openapi.Operation
	Schemas     map[string]*openapi.Schema
}

var queryIDParam = &openapi.Parameter{
	Name:        "queryId",
	In:          "path",
	Required:    true,
	Description: "Query ID",
	Schema:      &openapi.Schema{Type: "string", Format: "uuid"},
}

var spec = fileSpec{
	Upload: &openapi.Operation{
		Summary:     "Upload an attachment for a query",
		Description: "Accepts a single multipart part named file. Allowed extensions and size are configurable.",
		Parameters:  []*openapi.Parameter{queryIDParam},
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type:     "object",
						Required: []string{"file"},
						Properties: map[string]*openapi.Schema{
							"file": {Type: "string", Format: "binary"},
						},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Stored attachment", "File"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			413: {Description: "File exceeds the upload limit"},
			415: {Description: "File type not allowed"},
		},
	},
	ListByQuery: &openapi.Operation{
		Summary:    "List attachments for a query",
		Parameters: []*openapi.Parameter{queryIDParam},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Attachments",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("File")}},
				},
			},
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get attachment metadata",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "File ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Attachment", "File"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Download: &openapi.Operation{
		Summary:    "Download an attachment",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "File ID")},
		Responses: map[int]*openapi.Response{
			200: {Description: "File content"},
			404: openapi.ResponseRef("NotFound"),
			410: openapi.ResponseRef("Gone"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"File": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                {Type: "string", Format: "uuid"},
				"query_id":          {Type: "string", Format: "uuid"},
				"original_filename": {Type: "string"},
				"stored_filename":   {Type: "string"},
				"file_type":         {Type: "string"},
				"file_size":         {Type: "integer", Format: "int64"},
				"file_hash":         {Type: "string"},
				"summary":           {Type: "string"},
				"created_at":        {Type: "string", Format: "date-time"},
				"expiry_time":       {Type: "string", Format: "date-time"},
			},
		},
	},
}
