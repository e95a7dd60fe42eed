package robotdoc

import (
	"robo-tools/cmd/robolib/robots"
)

// ---- Public build functions ------------------------------------------------

// Build parses a single document and returns the validated registry.
func Build(in []byte) (*robots.Registry, error) {
	doc, err := Parse(in)
	if err != nil {
		return nil, err
	}
	return BuildFromDocuments(doc)
}

// BuildMany parses several documents and merges their records into one
// registry. A robot defined in more than one document fails with
// robots.ErrDuplicateRobot.
func BuildMany(inputs ...[]byte) (*robots.Registry, error) {
	docs := make([]Document, 0, len(inputs))
	for _, in := range inputs {
		doc, err := Parse(in)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return BuildFromDocuments(docs...)
}

// BuildFromDocuments builds a registry from already-parsed documents.
func BuildFromDocuments(docs ...Document) (*robots.Registry, error) {
	var records []robots.RawRobot
	for _, doc := range docs {
		records = append(records, doc.Records...)
	}
	return robots.Build(records)
}
