package robots

// RawRobot is a robot record as parsed from a persisted document.
// It is intentionally format-agnostic: no serialization tags.
//
// Key is the record's key in the document's `records` mapping; Name is the
// embedded `name` field. Build rejects records where the two differ.
type RawRobot struct {
	Key       string
	Name      string
	Immovable bool
	Source    string
	URLs      map[string]string
	Targets   map[string]RawTarget
	IK        [][]RawJoint
}

// RawTarget is a joint target as written in the document.
type RawTarget struct {
	Target float64
	Type   string
}

// RawJoint is one link of a chain as written in the document.
//
// Rotation distinguishes null from present: a nil slice is `null` (a fixed
// link), a non-nil slice is validated as an axis, including the empty one.
// Bounds entries are nil when the document holds `null` on that side.
type RawJoint struct {
	Name        string
	Bounds      [2]*float64
	Orientation []float64
	Rotation    []float64
	Translation []float64
}
