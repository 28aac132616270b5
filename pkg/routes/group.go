// Package routes declares route groups and registers them on a ServeMux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/caregate/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags and schemas.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	Walk(func(path string, route Route, _ Group) {
		mux.HandleFunc(route.Method+" "+path, route.Handler)
	}, groups...)
}

// Walk visits every route with its fully prefixed path and owning group.
func Walk(fn func(path string, route Route, group Group), groups ...Group) {
	for _, group := range groups {
		walkGroup(fn, "", group)
	}
}

// Describe adds documented operations and group schemas to spec.
// Paths are prefixed with basePath; routes without an OpenAPI operation are skipped.
func Describe(spec *openapi.Spec, basePath string, groups ...Group) {
	for _, g := range groups {
		describeSchemas(spec, g)
	}

	Walk(func(path string, route Route, group Group) {
		if route.OpenAPI == nil {
			return
		}
		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = group.Tags
		}
		spec.AddOperation(basePath+path, route.Method, &op)
	}, groups...)
}

func describeSchemas(spec *openapi.Spec, g Group) {
	if len(g.Schemas) > 0 {
		spec.Components.AddSchemas(g.Schemas)
	}
	for _, child := range g.Children {
		describeSchemas(spec, child)
	}
}

func walkGroup(fn func(string, Route, Group), parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		fn(fullPrefix+route.Pattern, route, group)
	}
	for _, child := range group.Children {
		walkGroup(fn, fullPrefix, child)
	}
}
