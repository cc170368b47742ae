// Package schemas holds the JSON Schema documents for enhancer responses,
// config files and monitor reports.
package schemas

import "embed"

// Files contains every *.schema.json document in this directory
//
//go:embed *.schema.json
var Files embed.FS
