// internal/ats/catalog/resolver.go
package catalog

import (
	"context"
	"strings"
)

// Resolver maps free-text job requirement strings onto catalog skill tokens.
// Requirements are prose ("3+ years with React, Node.js"), not a clean tag
// list, so recognition is substring containment against the curated catalog.
type Resolver struct {
	catalog Catalog
}

func NewResolver(c Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve returns the deduplicated set of catalog tokens contained in any of
// the requirement strings, in catalog order. An empty result is a valid,
// expected outcome for jobs without recognizable requirements.
func (r *Resolver) Resolve(_ context.Context, requirements []string) []string {
	if len(requirements) == 0 {
		return nil
	}

	lowered := make([]string, 0, len(requirements))
	for _, req := range requirements {
		lowered = append(lowered, strings.ToLower(req))
	}

	var vocabulary []string
	for _, token := range r.catalog.entries {
		for _, req := range lowered {
			if strings.Contains(req, token) {
				vocabulary = append(vocabulary, token)
				break
			}
		}
	}
	return vocabulary
}

// Catalog returns the catalog this resolver was built with.
func (r *Resolver) Catalog() Catalog {
	return r.catalog
}
