// Package schemas embeds the JSON Schemas for documents accepted by the deck tools.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory
//
//go:embed *.schema.json
var FS embed.FS

// Schema file names
const (
	Common       = "common.schema.json"
	Presentation = "presentation.schema.json"
	Uploads      = "uploads.schema.json"
)
