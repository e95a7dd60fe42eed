package robots

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
)

func f64(v float64) *float64 {
	return &v
}

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected %q to contain %q", got, sub)
		}
	}
}

func joint(name string, rotation []float64) RawJoint {
	return RawJoint{
		Name:        name,
		Bounds:      [2]*float64{f64(-1), f64(1)},
		Orientation: []float64{0, 0, 0},
		Rotation:    rotation,
		Translation: []float64{0, 0.1, 0},
	}
}

func arm(name string) RawRobot {
	return RawRobot{
		Key:       name,
		Name:      name,
		Immovable: true,
		Source:    "https://example.com/" + name,
		URLs: map[string]string{
			"Linux":  "https://assets.example.com/linux/" + name,
			"Darwin": "https://assets.example.com/osx/" + name,
		},
		Targets: map[string]RawTarget{"elbow": {Target: 30, Type: "revolute"}},
		IK: [][]RawJoint{{
			joint("base", []float64{0, 1, 0}),
			joint("elbow", []float64{1, 0, 0}),
			{Name: "tip", Orientation: []float64{0, 0, 0}, Translation: []float64{0, 0.05, 0}},
		}},
	}
}

func mobile(name string) RawRobot {
	return RawRobot{
		Key:  name,
		Name: name,
		URLs: map[string]string{"Windows": "https://assets.example.com/windows/" + name},
	}
}

func mustBuild(t *testing.T, records ...RawRobot) *Registry {
	t.Helper()
	reg, err := Build(records)
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	return reg
}

func requireBuildErr(t *testing.T, want error, records ...RawRobot) *ValidationError {
	t.Helper()
	reg, err := Build(records)
	if err == nil {
		t.Fatalf("expected %v, got registry with %d robots", want, reg.Len())
	}
	if reg != nil {
		t.Fatalf("expected no registry on error")
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected errors.Is(%v), got %v", want, err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve
}

func TestBuild_GetEveryKey(t *testing.T) {
	reg := mustBuild(t, arm("arm_a"), arm("arm_b"), mobile("rover"))
	for _, key := range []string{"arm_a", "arm_b", "rover"} {
		def, err := reg.Get(key)
		if err != nil {
			t.Fatalf("Get(%q): %v", key, err)
		}
		if def.Name != key {
			t.Errorf("Get(%q).Name = %q", key, def.Name)
		}
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}
}

func TestBuild_EmptyRegistry(t *testing.T) {
	reg := mustBuild(t)
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", reg.Len())
	}
	if got := slices.Collect(reg.Names()); len(got) != 0 {
		t.Fatalf("Names() = %v, want empty", got)
	}
}

func TestBuild_ValidationErrors(t *testing.T) {
	t.Run("key mismatch", func(t *testing.T) {
		r := arm("x")
		r.Name = "y"
		ve := requireBuildErr(t, ErrKeyMismatch, r)
		if ve.Robot != "x" {
			t.Errorf("Robot = %q, want x", ve.Robot)
		}
		mustContain(t, ve.Error(), "phase=validate", "robot=x", "path=name")
	})

	t.Run("no urls", func(t *testing.T) {
		r := arm("x")
		r.URLs = map[string]string{}
		ve := requireBuildErr(t, ErrNoAsset, r)
		mustContain(t, ve.Error(), "path=urls")
	})

	t.Run("empty url", func(t *testing.T) {
		r := arm("x")
		r.URLs["Linux"] = ""
		requireBuildErr(t, ErrNoAsset, r)
	})

	t.Run("unknown platform key", func(t *testing.T) {
		r := arm("x")
		r.URLs["Solaris"] = "https://example.com"
		ve := requireBuildErr(t, ErrSchema, r)
		mustContain(t, ve.Error(), "Solaris")
	})

	t.Run("empty chain", func(t *testing.T) {
		r := arm("x")
		r.IK = append(r.IK, []RawJoint{})
		ve := requireBuildErr(t, ErrEmptyChain, r)
		mustContain(t, ve.Error(), "path=ik[1]")
	})

	t.Run("min greater than max", func(t *testing.T) {
		r := arm("x")
		r.IK[0][1].Bounds = [2]*float64{f64(5), f64(1)}
		ve := requireBuildErr(t, ErrInvalidBounds, r)
		mustContain(t, ve.Error(), "path=ik[0][1].bounds", "min 5 > max 1")
	})

	t.Run("half open bounds accepted", func(t *testing.T) {
		r := arm("x")
		r.IK[0][1].Bounds = [2]*float64{nil, f64(1)}
		reg := mustBuild(t, r)
		chain, _ := reg.ResolveChain("x", 0)
		if _, ok := chain[1].Bounds.Min(); ok {
			t.Errorf("expected open lower bound")
		}
		if v, ok := chain[1].Bounds.Max(); !ok || v != 1 {
			t.Errorf("Max() = %v, %v", v, ok)
		}
	})

	axisCases := map[string][]float64{
		"non unit component": {0, 0.5, 0},
		"mixed magnitudes":   {2, 0, 0},
		"zero vector":        {0, 0, 0},
		"too short":          {1, 0},
		"empty":              {},
	}
	for name, rotation := range axisCases {
		t.Run("axis "+name, func(t *testing.T) {
			r := arm("x")
			r.IK[0][0].Rotation = rotation
			ve := requireBuildErr(t, ErrInvalidAxis, r)
			mustContain(t, ve.Error(), "path=ik[0][0].rotation")
		})
	}

	t.Run("negative axis accepted", func(t *testing.T) {
		r := arm("x")
		r.IK[0][0].Rotation = []float64{0, 0, -1}
		mustBuild(t, r)
	})

	t.Run("orientation length", func(t *testing.T) {
		r := arm("x")
		r.IK[0][0].Orientation = []float64{0, 0}
		ve := requireBuildErr(t, ErrSchema, r)
		mustContain(t, ve.Error(), "path=ik[0][0].orientation")
	})

	t.Run("duplicate joint in chain", func(t *testing.T) {
		r := arm("x")
		r.IK[0][2].Name = "base"
		requireBuildErr(t, ErrDuplicateJoint, r)
	})

	t.Run("duplicate robot", func(t *testing.T) {
		requireBuildErr(t, ErrDuplicateRobot, arm("x"), mobile("x"))
	})

	t.Run("first error in key order", func(t *testing.T) {
		bad1 := arm("b")
		bad1.URLs = nil
		bad2 := arm("a")
		bad2.Name = "z"
		ve := requireBuildErr(t, ErrKeyMismatch, bad1, bad2)
		if ve.Robot != "a" {
			t.Errorf("Robot = %q, want a", ve.Robot)
		}
	})
}

func TestTargets_NotCheckedAgainstChains(t *testing.T) {
	r := arm("x")
	r.Targets["not_a_chain_joint"] = RawTarget{Target: 0.2, Type: "prismatic"}
	reg := mustBuild(t, r)
	targets, err := reg.Targets("x")
	if err != nil {
		t.Fatal(err)
	}
	if got := targets["not_a_chain_joint"]; got.Type != Prismatic || got.Target != 0.2 {
		t.Errorf("unexpected target %+v", got)
	}
}

func TestGet(t *testing.T) {
	reg := mustBuild(t, arm("ur5"))

	t.Run("exact match only", func(t *testing.T) {
		for _, name := range []string{"UR5", "ur5 ", "ur", ""} {
			_, err := reg.Get(name)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(%q): expected ErrNotFound, got %v", name, err)
			}
		}
	})

	t.Run("returns a copy", func(t *testing.T) {
		def, _ := reg.Get("ur5")
		def.URLs[Linux] = "mutated"
		def.Chains[0][0].Name = "mutated"
		again, _ := reg.Get("ur5")
		if again.URLs[Linux] == "mutated" || again.Chains[0][0].Name == "mutated" {
			t.Fatal("registry was mutated through a returned definition")
		}
	})
}

func TestResolveAssetURL(t *testing.T) {
	reg := mustBuild(t, arm("arm"))

	got, err := reg.ResolveAssetURL("arm", Linux)
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://assets.example.com/linux/arm" {
		t.Errorf("got %q", got)
	}

	_, err = reg.ResolveAssetURL("arm", Windows)
	if !errors.Is(err, ErrNoAssetForPlatform) {
		t.Errorf("expected ErrNoAssetForPlatform, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("missing platform must not look like a missing robot")
	}

	_, err = reg.ResolveAssetURL("nope", Linux)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = reg.ResolveAssetURL("arm", Platform("linux"))
	if !errors.Is(err, ErrUnknownPlatform) {
		t.Errorf("expected ErrUnknownPlatform, got %v", err)
	}
}

func TestResolveChain(t *testing.T) {
	reg := mustBuild(t, arm("arm"), mobile("rover"))

	chain, err := reg.ResolveChain("arm", 0)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(chain))
	for i, j := range chain {
		names[i] = j.Name
	}
	if !slices.Equal(names, []string{"base", "elbow", "tip"}) {
		t.Errorf("chain order = %v", names)
	}
	if !chain[2].Rotation.IsFixed() {
		t.Errorf("tip should be fixed")
	}
	if !chain[2].Bounds.IsUnbounded() {
		t.Errorf("tip should be unbounded")
	}
	if axis, ok := chain[0].Rotation.Axis(); !ok || axis != (Vec3{0, 1, 0}) {
		t.Errorf("base axis = %v, %v", axis, ok)
	}

	if _, err := reg.ResolveChain("rover", 0); !errors.Is(err, ErrNoChain) {
		t.Errorf("expected ErrNoChain, got %v", err)
	}
	for _, idx := range []int{-1, 1} {
		if _, err := reg.ResolveChain("arm", idx); !errors.Is(err, ErrChainIndex) {
			t.Errorf("index %d: expected ErrChainIndex, got %v", idx, err)
		}
	}
	if _, err := reg.ResolveChain("ghost", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	chain[0].Name = "mutated"
	again, _ := reg.ResolveChain("arm", 0)
	if again[0].Name != "base" {
		t.Fatal("registry chain was mutated through a returned chain")
	}
}

func TestJointOrder(t *testing.T) {
	reg := mustBuild(t, arm("arm"))
	got, err := reg.JointOrder("arm", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"base", "elbow"}) {
		t.Errorf("JointOrder = %v", got)
	}
}

func TestNames_StableAndRestartable(t *testing.T) {
	reg := mustBuild(t, mobile("zeta"), arm("alpha"), mobile("Mid"), arm("beta"))
	first := slices.Collect(reg.Names())
	second := slices.Collect(reg.Names())
	want := []string{"Mid", "alpha", "beta", "zeta"}
	if !slices.Equal(first, want) {
		t.Fatalf("Names() = %v, want %v", first, want)
	}
	if !slices.Equal(first, second) {
		t.Fatalf("Names() not stable: %v vs %v", first, second)
	}

	var partial []string
	for n := range reg.Names() {
		partial = append(partial, n)
		if len(partial) == 2 {
			break
		}
	}
	if !slices.Equal(partial, want[:2]) {
		t.Fatalf("early break yielded %v", partial)
	}
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	reg := mustBuild(t, arm("arm"), mobile("rover"))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = reg.Get("arm")
				_, _ = reg.ResolveAssetURL("rover", Windows)
				_, _ = reg.ResolveChain("arm", 0)
				_ = slices.Collect(reg.Names())
			}
		}()
	}
	wg.Wait()
}
