package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"robo-tools/cmd/robolib/robots"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleName = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	styleLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")).
			Width(12)

	styleValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("35"))

	styleDim = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func fmtVec(v robots.Vec3) string {
	return fmt.Sprintf("[%g %g %g]", v[0], v[1], v[2])
}

// renderDefinition is the styled multi-line summary used by show, browse and pick.
func renderDefinition(def robots.Definition) string {
	var sb strings.Builder
	row := func(label, value string) {
		sb.WriteString("  " + styleLabel.Render(label) + " " + styleValue.Render(value) + "\n")
	}

	sb.WriteString(styleName.Render(def.Name) + "\n")
	row("immovable", fmt.Sprintf("%t", def.Immovable))
	if def.Source != "" {
		row("source", def.Source)
	}

	sb.WriteString("  " + styleLabel.Render("assets") + "\n")
	for _, p := range def.AvailablePlatforms() {
		u, _ := def.URL(p)
		sb.WriteString("    " + styleLabel.Render(string(p)) + " " + styleValue.Render(u) + "\n")
	}

	if len(def.Targets) > 0 {
		sb.WriteString("  " + styleLabel.Render("targets") + "\n")
		for _, joint := range slices.Sorted(maps.Keys(def.Targets)) {
			t := def.Targets[joint]
			sb.WriteString(fmt.Sprintf("    %s %s\n",
				styleValue.Render(joint),
				styleDim.Render(fmt.Sprintf("%g (%s)", t.Target, t.Type))))
		}
	}

	if !def.HasIK() {
		row("ik", styleDim.Render("none"))
		return sb.String()
	}
	sb.WriteString("  " + styleLabel.Render("ik") + "\n")
	for i, chain := range def.Chains {
		order := chain.JointOrder()
		sb.WriteString(fmt.Sprintf("    [%d] %d links, %d actuated: %s\n",
			i, len(chain), len(order), strings.Join(order, ", ")))
	}
	return sb.String()
}

// printChain writes one row per link, in chain order.
func printChain(w io.Writer, chain robots.Chain) {
	fmt.Fprintf(w, "%-3s %-24s %-12s %-22s %-20s %-20s\n", "#", "LINK", "ROTATION", "BOUNDS", "ORIENTATION", "TRANSLATION")
	fmt.Fprintln(w, strings.Repeat("-", 106))
	for i, j := range chain {
		fmt.Fprintf(w, "%-3d %-24s %-12s %-22s %-20s %-20s\n",
			i, j.Name, j.Rotation, j.Bounds, fmtVec(j.Orientation), fmtVec(j.Translation))
	}
}

// printRobots is the plain table used by browse --no-tui.
func printRobots(w io.Writer, reg *robots.Registry) {
	fmt.Fprintf(w, "%-16s %-10s %-6s %-24s\n", "NAME", "IMMOVABLE", "IK", "PLATFORMS")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for def := range reg.Definitions() {
		fmt.Fprintf(w, "%-16s %-10t %-6d %-24s\n", def.Name, def.Immovable, len(def.Chains), platformNames(def))
	}
}

func platformNames(def robots.Definition) string {
	ps := def.AvailablePlatforms()
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return strings.Join(names, ",")
}
