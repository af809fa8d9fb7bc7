package httpfilter

import (
	"github.com/pb33f/libopenapi"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// LoadSitemapFromOpenAPI turns an OpenAPI 3.x document into sitemap entries,
// one per method/path operation, so a site's published API surface can seed
// its sitemap without hand-authoring every route. category labels every
// resulting entry (e.g. "api"); SemanticAction is the operationId, or
// "METHOD path" when the operation has none.
func LoadSitemapFromOpenAPI(doc []byte, category string) ([]SitemapEntry, error) {
	document, err := libopenapi.NewDocument(doc)
	if err != nil {
		return nil, &LoadError{Source: "openapi", Detail: "parse document", Err: err}
	}

	model, err := document.BuildV3Model()
	if err != nil {
		return nil, &LoadError{Source: "openapi", Detail: "build v3 model", Err: err}
	}

	var entries []SitemapEntry
	for pair := model.Model.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
		path := pair.Key()
		item := pair.Value()

		ops := map[string]*v3.Operation{
			"GET":    item.Get,
			"POST":   item.Post,
			"PUT":    item.Put,
			"DELETE": item.Delete,
			"PATCH":  item.Patch,
		}

		for method, op := range ops {
			if op == nil {
				continue
			}
			action := op.OperationId
			if action == "" {
				action = method + " " + path
			}
			entries = append(entries, SitemapEntry{
				Category:       category,
				SemanticAction: action,
				URLPattern:     openAPIPathToPattern(path),
				Method:         method,
			})
		}
	}

	return entries, nil
}

// openAPIPathToPattern rewrites OpenAPI's "{id}" path templating directly
// into the sitemap pattern vocabulary, which already uses the same syntax.
func openAPIPathToPattern(path string) string {
	return path
}
