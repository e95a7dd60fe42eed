package robots

import (
	"fmt"
	"math"
	"sort"
)

// ---------------------------------------------------------------------------
// Record validation
// ---------------------------------------------------------------------------

// ValidateRaw checks a single record without building it. It returns the
// first problem found as a *ValidationError.
func ValidateRaw(r RawRobot) error {
	_, err := convert(r)
	return err
}

// convert validates r and turns it into a Definition. Validation and
// conversion share one pass so the two can never disagree.
func convert(r RawRobot) (Definition, error) {
	fail := func(path string, err error) (Definition, error) {
		return Definition{}, &ValidationError{Robot: r.Key, Path: path, Err: err}
	}

	if r.Key != r.Name {
		return fail("name", fmt.Errorf("%w: key %q, name %q", ErrKeyMismatch, r.Key, r.Name))
	}
	if r.Name == "" {
		return fail("name", fmt.Errorf("%w: name must not be empty", ErrSchema))
	}

	urls, err := convertURLs(r.URLs)
	if err != nil {
		return fail("urls", err)
	}

	targets := make(map[string]JointTarget, len(r.Targets))
	for joint, t := range r.Targets {
		if math.IsNaN(t.Target) || math.IsInf(t.Target, 0) {
			return fail("targets."+joint, fmt.Errorf("%w: target must be finite", ErrSchema))
		}
		targets[joint] = JointTarget{Target: t.Target, Type: JointType(t.Type)}
	}

	var chains []Chain
	for ci, rawChain := range r.IK {
		chainPath := fmt.Sprintf("ik[%d]", ci)
		if len(rawChain) == 0 {
			return fail(chainPath, ErrEmptyChain)
		}
		chain := make(Chain, 0, len(rawChain))
		seen := make(map[string]struct{}, len(rawChain))
		for ji, rj := range rawChain {
			jointPath := fmt.Sprintf("%s[%d]", chainPath, ji)
			if _, dup := seen[rj.Name]; dup {
				return fail(jointPath+".name", fmt.Errorf("%w: %q", ErrDuplicateJoint, rj.Name))
			}
			seen[rj.Name] = struct{}{}

			j, field, err := convertJoint(rj)
			if err != nil {
				return fail(jointPath+"."+field, err)
			}
			chain = append(chain, j)
		}
		chains = append(chains, chain)
	}

	return Definition{
		Name:      r.Name,
		Immovable: r.Immovable,
		Source:    r.Source,
		URLs:      urls,
		Targets:   targets,
		Chains:    chains,
	}, nil
}

func convertURLs(raw map[string]string) (map[Platform]string, error) {
	if len(raw) == 0 {
		return nil, ErrNoAsset
	}
	// Sorted so the reported key is stable when several are wrong.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[Platform]string, len(raw))
	for _, k := range keys {
		p := Platform(k)
		if !p.Valid() {
			return nil, fmt.Errorf("%w: unknown platform key %q", ErrSchema, k)
		}
		if raw[k] == "" {
			return nil, fmt.Errorf("%w: empty url for %s", ErrNoAsset, k)
		}
		out[p] = raw[k]
	}
	return out, nil
}

// convertJoint returns the offending field name alongside any error.
func convertJoint(rj RawJoint) (JointSpec, string, error) {
	if rj.Name == "" {
		return JointSpec{}, "name", fmt.Errorf("%w: joint name must not be empty", ErrSchema)
	}
	orientation, err := parseVec3(rj.Orientation)
	if err != nil {
		return JointSpec{}, "orientation", err
	}
	translation, err := parseVec3(rj.Translation)
	if err != nil {
		return JointSpec{}, "translation_vector", err
	}
	rotation, err := parseAxis(rj.Rotation)
	if err != nil {
		return JointSpec{}, "rotation", err
	}
	bounds, err := parseBounds(rj.Bounds)
	if err != nil {
		return JointSpec{}, "bounds", err
	}
	return JointSpec{
		Name:        rj.Name,
		Rotation:    rotation,
		Orientation: orientation,
		Translation: translation,
		Bounds:      bounds,
	}, "", nil
}

func parseVec3(v []float64) (Vec3, error) {
	if len(v) != 3 {
		return Vec3{}, fmt.Errorf("%w: want 3 components, got %d", ErrSchema, len(v))
	}
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Vec3{}, fmt.Errorf("%w: components must be finite", ErrSchema)
		}
	}
	return Vec3{v[0], v[1], v[2]}, nil
}

// parseAxis accepts nil (a fixed link) or a 3-vector with components in {-1, 0, 1},
// not all zero.
func parseAxis(v []float64) (Rotation, error) {
	if v == nil {
		return Rotation{}, nil
	}
	if len(v) != 3 {
		return Rotation{}, fmt.Errorf("%w: want 3 components, got %d", ErrInvalidAxis, len(v))
	}
	nonZero := false
	for _, c := range v {
		switch c {
		case -1, 1:
			nonZero = true
		case 0:
		default:
			return Rotation{}, fmt.Errorf("%w: component %g not in {-1, 0, 1}", ErrInvalidAxis, c)
		}
	}
	if !nonZero {
		return Rotation{}, fmt.Errorf("%w: zero vector", ErrInvalidAxis)
	}
	return AxisRotation(Vec3{v[0], v[1], v[2]}), nil
}

func parseBounds(b [2]*float64) (Bounds, error) {
	for _, v := range b {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return Bounds{}, fmt.Errorf("%w: limits must be finite", ErrInvalidBounds)
		}
	}
	if b[0] != nil && b[1] != nil && *b[0] > *b[1] {
		return Bounds{}, fmt.Errorf("%w: min %g > max %g", ErrInvalidBounds, *b[0], *b[1])
	}
	return BoundsOf(b[0], b[1]), nil
}
