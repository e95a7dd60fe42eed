package robots

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Platform identifies the operating system an asset bundle was built for.
type Platform string

const (
	Darwin  Platform = "Darwin"
	Linux   Platform = "Linux"
	Windows Platform = "Windows"
)

// Platforms lists every supported platform in document order.
var Platforms = []Platform{Darwin, Linux, Windows}

// Valid reports whether p is one of the supported platform identifiers.
func (p Platform) Valid() bool {
	return slices.Contains(Platforms, p)
}

// ParsePlatform accepts the exact identifiers used in record documents as well
// as the lowercase spellings found in GOOS values and asset URLs.
func ParsePlatform(s string) (Platform, error) {
	if p := Platform(s); p.Valid() {
		return p, nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "darwin", "osx", "macos", "mac":
		return Darwin, nil
	case "linux":
		return Linux, nil
	case "windows", "win", "win32":
		return Windows, nil
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownPlatform, s, platformList())
}

func platformList() string {
	names := make([]string, len(Platforms))
	for i, p := range Platforms {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// Vec3 is an x, y, z triple in the robot's local frame.
type Vec3 [3]float64

// Rotation is the optional rotation axis of a joint.
// The zero value is a fixed link with no rotational degree of freedom.
type Rotation struct {
	axis Vec3
	ok   bool
}

// AxisRotation returns a Rotation about axis. Callers are expected to pass a
// validated axis; Build only produces axes with components in {-1, 0, 1}.
func AxisRotation(axis Vec3) Rotation {
	return Rotation{axis: axis, ok: true}
}

// Axis returns the rotation axis and whether the joint rotates at all.
func (r Rotation) Axis() (Vec3, bool) {
	return r.axis, r.ok
}

// IsFixed reports whether the link has no rotational degree of freedom.
func (r Rotation) IsFixed() bool { return !r.ok }

func (r Rotation) String() string {
	if !r.ok {
		return "fixed"
	}
	return fmt.Sprintf("[%g %g %g]", r.axis[0], r.axis[1], r.axis[2])
}

// Bounds holds the optional lower and upper limits of a joint.
// The zero value is unbounded.
type Bounds struct {
	min, max       float64
	hasMin, hasMax bool
}

// BoundsOf builds Bounds from optional limits; a nil pointer leaves that side open.
func BoundsOf(lo, hi *float64) Bounds {
	var b Bounds
	if lo != nil {
		b.min, b.hasMin = *lo, true
	}
	if hi != nil {
		b.max, b.hasMax = *hi, true
	}
	return b
}

// Between returns Bounds closed on both sides.
func Between(lo, hi float64) Bounds {
	return Bounds{min: lo, max: hi, hasMin: true, hasMax: true}
}

// Min returns the lower limit, if any.
func (b Bounds) Min() (float64, bool) { return b.min, b.hasMin }

// Max returns the upper limit, if any.
func (b Bounds) Max() (float64, bool) { return b.max, b.hasMax }

// IsUnbounded reports whether neither limit is set.
func (b Bounds) IsUnbounded() bool { return !b.hasMin && !b.hasMax }

// Contains reports whether v lies within the limits that are set.
func (b Bounds) Contains(v float64) bool {
	if b.hasMin && v < b.min {
		return false
	}
	if b.hasMax && v > b.max {
		return false
	}
	return true
}

func (b Bounds) String() string {
	side := func(v float64, ok bool) string {
		if !ok {
			return "null"
		}
		return fmt.Sprintf("%g", v)
	}
	return "(" + side(b.min, b.hasMin) + ", " + side(b.max, b.hasMax) + ")"
}

// JointSpec is one link of a kinematic chain.
type JointSpec struct {
	Name        string
	Rotation    Rotation
	Orientation Vec3
	Translation Vec3
	Bounds      Bounds
}

// Chain is an ordered root-to-tip sequence of links.
type Chain []JointSpec

// JointOrder returns the names of the actuated links in chain order. This is
// the order in which an IK solution's angles map back onto the robot's joints.
func (c Chain) JointOrder() []string {
	var names []string
	for _, j := range c {
		if !j.Rotation.IsFixed() {
			names = append(names, j.Name)
		}
	}
	return names
}

// JointType is the kind of joint a target drives.
type JointType string

const (
	Revolute  JointType = "revolute"
	Prismatic JointType = "prismatic"
	Spherical JointType = "spherical"
)

// JointTarget is a default pose value for one joint: an angle in degrees for
// revolute joints, a distance in meters for prismatic ones.
type JointTarget struct {
	Target float64
	Type   JointType
}

// Definition describes one robot. Values returned by Registry are copies;
// mutating them does not affect the registry.
type Definition struct {
	Name      string
	Immovable bool
	Source    string
	URLs      map[Platform]string
	Targets   map[string]JointTarget
	Chains    []Chain
}

// HasIK reports whether the robot defines at least one kinematic chain.
func (d Definition) HasIK() bool { return len(d.Chains) > 0 }

// URL returns the asset bundle URL for p.
func (d Definition) URL(p Platform) (string, bool) {
	u, ok := d.URLs[p]
	return u, ok
}

// AvailablePlatforms returns the platforms with an asset bundle, in Platforms order.
func (d Definition) AvailablePlatforms() []Platform {
	var out []Platform
	for _, p := range Platforms {
		if _, ok := d.URLs[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (d Definition) clone() Definition {
	c := d
	c.URLs = maps.Clone(d.URLs)
	c.Targets = maps.Clone(d.Targets)
	c.Chains = make([]Chain, len(d.Chains))
	for i, ch := range d.Chains {
		c.Chains[i] = slices.Clone(ch)
	}
	return c
}
