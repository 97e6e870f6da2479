package multiplicity

import "embed"

// EmbeddedAssets contains the browser assets shipped with the site:
// the scroll/carousel/overlay script and the stylesheet.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

var embeddedNames = []string{"site.js", "site.css", "favicon.svg"}
