package httpfilter

import (
	"io"

	postman "github.com/rbretecher/go-postman-collection"
)

// LoadSitemapFromPostmanCollection turns a Postman collection into sitemap
// entries, recursing through folders the way a client walks the collection
// tree to replay requests.
func LoadSitemapFromPostmanCollection(r io.Reader, category string) ([]SitemapEntry, error) {
	collection, err := postman.ParseCollection(r)
	if err != nil {
		return nil, &LoadError{Source: "postman", Detail: "parse collection", Err: err}
	}

	var entries []SitemapEntry
	collectPostmanItems(collection.Items, category, &entries)
	return entries, nil
}

func collectPostmanItems(items []*postman.Items, category string, out *[]SitemapEntry) {
	for _, item := range items {
		if item.IsGroup() {
			collectPostmanItems(item.Items, category, out)
			continue
		}
		if item.Request == nil {
			continue
		}
		req := item.Request
		var rawURL string
		if req.URL != nil {
			rawURL = req.URL.Raw
		}
		action := item.Name
		if action == "" {
			action = string(req.Method) + " " + rawURL
		}
		*out = append(*out, SitemapEntry{
			Category:       category,
			SemanticAction: action,
			URLPattern:     rawURL,
			Method:         string(req.Method),
		})
	}
}
