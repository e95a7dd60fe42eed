package robotdoc

import (
	// for embedding the bundled records document.
	_ "embed"

	"robo-tools/cmd/robolib/robots"
)

// DefaultRecords is the bundled records document describing the stock robots.
//
//go:embed records.json
var DefaultRecords []byte

// Default builds the registry from DefaultRecords.
func Default() (*robots.Registry, error) {
	return Build(DefaultRecords)
}
