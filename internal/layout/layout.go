// Package layout apportions screen real estate from a focus decision and a
// viewport. Compute is pure and idempotent: identical inputs always produce
// identical specs, so rendering hints can be derived deterministically.
package layout

import (
	"fmt"
	"sort"

	"github.com/jask/aperture/internal/focus"
)

// Breakpoints and clamps, in terminal cells.
const (
	BreakNarrow = 80
	BreakMedium = 120

	sidebarMinWidth = 20
	sidebarMaxWidth = 48
	stripHeight     = 6

	focusRatioOverride = 0.62
	focusRatioDefault  = 0.45
)

// TimelineMode says how the timeline is placed.
type TimelineMode string

const (
	TimelineSidebar TimelineMode = "sidebar"
	TimelineStrip   TimelineMode = "strip"
)

// SecondaryMode says how the secondary panels are arranged.
type SecondaryMode string

const (
	SecondaryGrid      SecondaryMode = "grid"
	SecondaryTabbed    SecondaryMode = "tabbed"
	SecondaryMinimized SecondaryMode = "minimized"
)

// Viewport is the drawable area, in cells.
type Viewport struct {
	Width  int
	Height int
}

// TimelinePlan sizes the timeline region.
type TimelinePlan struct {
	Mode   TimelineMode
	Width  int // sidebar mode only
	Height int // strip mode only
}

// SecondaryPlan arranges the secondary panels.
type SecondaryPlan struct {
	Mode  SecondaryMode
	Order []focus.Panel
}

// Spec is the full layout decision for one render.
type Spec struct {
	Timeline         TimelinePlan
	FocusHeightRatio float64
	Secondary        SecondaryPlan
}

// Hint is one derived rendering hint, emitted in sorted-key order.
type Hint struct {
	Key   string
	Value string
}

// Compute derives the layout spec for a focus state and viewport.
func Compute(st focus.State, vp Viewport) Spec {
	var spec Spec

	if vp.Width < BreakNarrow {
		spec.Timeline = TimelinePlan{Mode: TimelineStrip, Height: stripHeight}
	} else {
		spec.Timeline = TimelinePlan{Mode: TimelineSidebar, Width: clamp(vp.Width/4, sidebarMinWidth, sidebarMaxWidth)}
	}

	// A pending consent decision gets maximal visual weight.
	if st.Override {
		spec.FocusHeightRatio = focusRatioOverride
	} else {
		spec.FocusHeightRatio = focusRatioDefault
	}

	switch {
	case st.Override:
		spec.Secondary.Mode = SecondaryMinimized
	case vp.Width < BreakMedium:
		spec.Secondary.Mode = SecondaryTabbed
	default:
		spec.Secondary.Mode = SecondaryGrid
	}

	spec.Secondary.Order = secondaryOrder(st.Panel)
	return spec
}

// secondaryOrder puts the focused secondary panel first when it is one of
// the secondary set; otherwise the canonical order is used unchanged.
func secondaryOrder(focused focus.Panel) []focus.Panel {
	canonical := focus.SecondaryPanels()
	idx := -1
	for i, p := range canonical {
		if p == focused {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return canonical
	}
	out := make([]focus.Panel, 0, len(canonical))
	out = append(out, canonical[idx])
	out = append(out, canonical[:idx]...)
	out = append(out, canonical[idx+1:]...)
	return out
}

// StyleHints flattens a spec into sorted key/value pairs for hosts that map
// layout decisions onto style variables.
func (s Spec) StyleHints() []Hint {
	vars := map[string]string{
		"timeline.mode":      string(s.Timeline.Mode),
		"timeline.width":     fmt.Sprintf("%d", s.Timeline.Width),
		"timeline.height":    fmt.Sprintf("%d", s.Timeline.Height),
		"focus.height-ratio": fmt.Sprintf("%.2f", s.FocusHeightRatio),
		"secondary.mode":     string(s.Secondary.Mode),
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Hint, 0, len(keys))
	for _, k := range keys {
		out = append(out, Hint{Key: k, Value: vars[k]})
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
