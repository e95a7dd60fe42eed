package robotdoc

import (
	"encoding/json"

	"robo-tools/cmd/robolib/robots"
)

// ---- Internal JSON output structs ------------------------------------------
//
// These mirror the persisted document shape. encoding/json sorts map keys, so
// the output of Encode is deterministic for a given registry.

type jsonDocument struct {
	Description string                `json:"description"`
	Records     map[string]jsonRecord `json:"records"`
}

type jsonRecord struct {
	Name      string                `json:"name"`
	Immovable bool                  `json:"immovable"`
	Source    string                `json:"source"`
	Targets   map[string]jsonTarget `json:"targets"`
	URLs      map[string]string     `json:"urls"`
	IK        [][]jsonJoint         `json:"ik"`
}

type jsonTarget struct {
	Target float64 `json:"target"`
	Type   string  `json:"type"`
}

type jsonJoint struct {
	Name              string       `json:"name"`
	Bounds            [2]*float64  `json:"bounds"`
	Orientation       robots.Vec3  `json:"orientation"`
	Rotation          *robots.Vec3 `json:"rotation"`
	TranslationVector robots.Vec3  `json:"translation_vector"`
}

// Encode writes reg back out in the persisted document shape. Loading the
// result yields a registry equal to reg.
func Encode(reg *robots.Registry, description string, pretty bool) ([]byte, error) {
	doc := jsonDocument{
		Description: description,
		Records:     make(map[string]jsonRecord, reg.Len()),
	}
	for def := range reg.Definitions() {
		doc.Records[def.Name] = encodeRecord(def)
	}
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

func encodeRecord(def robots.Definition) jsonRecord {
	rec := jsonRecord{
		Name:      def.Name,
		Immovable: def.Immovable,
		Source:    def.Source,
		Targets:   make(map[string]jsonTarget, len(def.Targets)),
		URLs:      make(map[string]string, len(def.URLs)),
		IK:        make([][]jsonJoint, 0, len(def.Chains)),
	}
	for joint, t := range def.Targets {
		rec.Targets[joint] = jsonTarget{Target: t.Target, Type: string(t.Type)}
	}
	for p, u := range def.URLs {
		rec.URLs[string(p)] = u
	}
	for _, chain := range def.Chains {
		rec.IK = append(rec.IK, encodeChain(chain))
	}
	return rec
}

// EncodeChain writes a single chain as the JSON array of joints used inside a
// record's `ik` list.
func EncodeChain(chain robots.Chain, pretty bool) ([]byte, error) {
	joints := encodeChain(chain)
	if pretty {
		return json.MarshalIndent(joints, "", "  ")
	}
	return json.Marshal(joints)
}

func encodeChain(chain robots.Chain) []jsonJoint {
	joints := make([]jsonJoint, 0, len(chain))
	for _, j := range chain {
		jj := jsonJoint{
			Name:              j.Name,
			Orientation:       j.Orientation,
			TranslationVector: j.Translation,
		}
		if axis, ok := j.Rotation.Axis(); ok {
			jj.Rotation = &axis
		}
		if v, ok := j.Bounds.Min(); ok {
			jj.Bounds[0] = &v
		}
		if v, ok := j.Bounds.Max(); ok {
			jj.Bounds[1] = &v
		}
		joints = append(joints, jj)
	}
	return joints
}
