package main

import (
	"onboarding/internal/domain/catalog"
	"onboarding/internal/domain/completion"
	"onboarding/internal/metadata"
)

// setupMetadataRegistry builds form definitions for every catalog entity.
func setupMetadataRegistry(cat *catalog.Catalog, engine *completion.Engine) *metadata.Registry {
	return metadata.Build(cat, engine)
}
