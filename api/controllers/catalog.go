package controllers

import (
	"net/http"

	"github.com/trndfy/samplevault-backend/api/responses"
	"github.com/trndfy/samplevault-backend/internal/catalog"
)

type catalogEntry struct {
	catalog.Sample
	PreviewURL string `json:"previewUrl,omitempty"`
}

// Catalog serves the public sample listing, optionally filtered by
// ?category=. Full-quality object paths never leave the server.
func Catalog(previewBucket string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		samples := catalog.ByCategory(r.URL.Query().Get("category"))

		entries := make([]catalogEntry, 0, len(samples))
		for _, s := range samples {
			entries = append(entries, catalogEntry{
				Sample:     s,
				PreviewURL: s.PreviewURL(previewBucket),
			})
		}
		responses.WriteSuccess(w, map[string]any{
			"samples":    entries,
			"categories": catalog.Categories,
		})
	}
}
