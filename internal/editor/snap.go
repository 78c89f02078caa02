package editor

import (
	"math"
	"sort"
)

// SnapOrigin records what produced a guide line.
type SnapOrigin string

const (
	OriginNeighbor SnapOrigin = "neighbor"
	OriginViewport SnapOrigin = "viewport"
	OriginSpacing  SnapOrigin = "spacing"
)

// Guide is a transient alignment line for the current tick's render pass.
// Vertical guides fix X at Position and span Start..End in Y; horizontal
// guides are the transpose.
type Guide struct {
	Vertical bool       `json:"vertical"`
	Position float64    `json:"position"`
	Start    float64    `json:"start"`
	End      float64    `json:"end"`
	Origin   SnapOrigin `json:"origin"`
}

// relation classifies a snap candidate. Higher values win regardless of
// offset magnitude; offsets only break ties within a relation.
type relation int

const (
	relOppositeEdge relation = iota
	relSameEdge
	relSpacing
)

// candidate is one proposed alignment on a single axis. Regenerated every
// tick, never carried across ticks.
type candidate struct {
	offset float64 // signed: neighbor anchor - target anchor
	rel    relation
	guide  Guide
}

func (c candidate) betterThan(o *candidate) bool {
	if o == nil {
		return true
	}
	if c.rel != o.rel {
		return c.rel > o.rel
	}
	return math.Abs(c.offset) < math.Abs(o.offset)
}

// SnapConfig tunes SnapSmart. Zero values fall back to defaults.
type SnapConfig struct {
	Tolerance         float64 // max offset at which an edge/center candidate is proposed
	SearchRadius      float64 // neighbor cutoff; 0 means the viewport diagonal
	Easing            float64 // fraction of the winning offset applied per tick
	DisableSpacing    bool    // spacing inference is on unless switched off
	SpacingConfidence float64 // gap-consistency score required to infer a spacing
	SpacingTolerance  float64 // max offset at which a spacing candidate is proposed
}

// DefaultSnapConfig returns the stock tuning.
func DefaultSnapConfig() SnapConfig {
	return SnapConfig{
		Tolerance:         15,
		Easing:            0.005,
		SpacingConfidence: 0.8,
		SpacingTolerance:  5,
	}
}

func (c SnapConfig) withDefaults() SnapConfig {
	d := DefaultSnapConfig()
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.Easing <= 0 {
		c.Easing = d.Easing
	}
	if c.SpacingConfidence <= 0 {
		c.SpacingConfidence = d.SpacingConfidence
	}
	if c.SpacingTolerance <= 0 {
		c.SpacingTolerance = d.SpacingTolerance
	}
	return c
}

// SnapTarget is what SnapSmart nudges: a single shape or the transformer's
// aggregate box.
type SnapTarget interface {
	Sides() Sides
	Translate(dx, dy float64)
}

type shapeTarget struct{ s Shape }

func (t shapeTarget) Sides() Sides { return t.s.Sides() }
func (t shapeTarget) Translate(dx, dy float64) {
	t.s.Meta().MoveBy(dx, dy)
}

// TargetShape adapts a single shape for snapping.
func TargetShape(s Shape) SnapTarget { return shapeTarget{s: s} }

type groupTarget struct{ t *Transformer }

func (g groupTarget) Sides() Sides { return SidesOf(g.t.Box()) }
func (g groupTarget) Translate(dx, dy float64) {
	g.t.Translate(dx, dy)
}

// TargetGroup adapts the transformer's selection for snapping. Nudges move
// every selected shape.
func TargetGroup(t *Transformer) SnapTarget { return groupTarget{t: t} }

// SnapSmart proposes and applies alignment snaps for one bound target: edge
// and center alignment against neighbors, viewport-center alignment, and
// inferred even-spacing sequences. It re-evaluates from scratch every tick
// and eases the target toward the winning candidate per axis, producing a
// damped magnetic pull rather than a hard jump.
type SnapSmart struct {
	cfg    SnapConfig
	target SnapTarget

	bestX  *candidate
	bestY  *candidate
	guides []Guide
}

// NewSnapSmart creates an unbound snapper.
func NewSnapSmart(cfg SnapConfig) *SnapSmart {
	return &SnapSmart{cfg: cfg.withDefaults()}
}

// Bind attaches the snapper to a target and resets all candidate and guide
// state. Re-binding mid-gesture discards everything from the previous
// target; stale guides never survive a bind.
func (sn *SnapSmart) Bind(target SnapTarget) {
	sn.target = target
	sn.reset()
}

// Unbind detaches the snapper. Safe to call repeatedly or when never bound.
func (sn *SnapSmart) Unbind() {
	sn.target = nil
	sn.reset()
}

// Bound reports whether a target is attached.
func (sn *SnapSmart) Bound() bool { return sn.target != nil }

func (sn *SnapSmart) reset() {
	sn.bestX = nil
	sn.bestY = nil
	sn.guides = nil
}

// Guides returns the guide lines for the current tick, one per winning axis.
func (sn *SnapSmart) Guides() []Guide { return sn.guides }

// Update runs one evaluation tick: collect candidates from neighbors, the
// viewport center, and spacing inference; pick a winner per axis; ease the
// target toward it. A nil target makes this a no-op.
func (sn *SnapSmart) Update(neighbors []Shape, vp Viewport) {
	if sn.target == nil {
		return
	}
	sn.evaluate(neighbors, vp)

	var dx, dy float64
	if sn.bestX != nil {
		dx = sn.bestX.offset * sn.cfg.Easing
	}
	if sn.bestY != nil {
		dy = sn.bestY.offset * sn.cfg.Easing
	}
	if dx != 0 || dy != 0 {
		sn.target.Translate(dx, dy)
		// Keep the stored offsets as remainders so Commit lands exactly on
		// the snap position instead of overshooting by the eased portion.
		if sn.bestX != nil {
			sn.bestX.offset -= dx
		}
		if sn.bestY != nil {
			sn.bestY.offset -= dy
		}
	}
}

// Commit applies the full remaining winning offset in one step, then clears
// candidate and guide state. Called on pointer-up.
func (sn *SnapSmart) Commit() {
	if sn.target == nil {
		sn.reset()
		return
	}
	var dx, dy float64
	if sn.bestX != nil {
		dx = sn.bestX.offset
	}
	if sn.bestY != nil {
		dy = sn.bestY.offset
	}
	if dx != 0 || dy != 0 {
		sn.target.Translate(dx, dy)
	}
	sn.reset()
}

// evaluate regenerates the per-axis winners and their guides.
func (sn *SnapSmart) evaluate(neighbors []Shape, vp Viewport) {
	sn.reset()

	target := sn.target.Sides()
	nearby := sn.filterNeighbors(target, neighbors, vp)

	for _, n := range nearby {
		ns := n.Sides()
		sn.considerEdges(target, ns)
	}
	sn.considerViewport(target, vp)
	if !sn.cfg.DisableSpacing {
		sn.considerSpacing(target, nearby)
	}

	if sn.bestX != nil {
		sn.guides = append(sn.guides, sn.bestX.guide)
	}
	if sn.bestY != nil {
		sn.guides = append(sn.guides, sn.bestY.guide)
	}
}

// filterNeighbors keeps visible shapes whose center is within the search
// radius of the target center. The radius is a performance cutoff, not a
// correctness bound.
func (sn *SnapSmart) filterNeighbors(target Sides, neighbors []Shape, vp Viewport) []Shape {
	radius := sn.cfg.SearchRadius
	if radius <= 0 {
		radius = vp.WorldDiagonal()
	}
	tc := Point{X: target.CenterX, Y: target.CenterY}

	var out []Shape
	for _, n := range neighbors {
		m := n.Meta()
		if !m.Visible || m.Selected {
			continue
		}
		ns := n.Sides()
		if tc.Dist(Point{X: ns.CenterX, Y: ns.CenterY}) <= radius {
			out = append(out, n)
		}
	}
	return out
}

func (sn *SnapSmart) considerX(c candidate) {
	if c.betterThan(sn.bestX) {
		cc := c
		sn.bestX = &cc
	}
}

func (sn *SnapSmart) considerY(c candidate) {
	if c.betterThan(sn.bestY) {
		cc := c
		sn.bestY = &cc
	}
}

// considerEdges proposes edge and center alignments against one neighbor.
//
// Opposite-edge pairs (target left to neighbor right and vice versa) are
// only proposed when the target sits outside the neighbor on that side, so
// a shape is never pulled through the one it abuts. Same-edge and center
// pairs carry no sign constraint: aligning left-to-left is direction
// agnostic.
func (sn *SnapSmart) considerEdges(t, n Sides) {
	tol := sn.cfg.Tolerance

	vSpan := [2]float64{min(t.Top, n.Top), max(t.Bottom, n.Bottom)}
	hSpan := [2]float64{min(t.Left, n.Left), max(t.Right, n.Right)}

	// X axis, opposite edges.
	if d := n.Right - t.Left; math.Abs(d) <= tol && t.CenterX >= n.CenterX {
		sn.considerX(candidate{offset: d, rel: relOppositeEdge, guide: vGuide(n.Right, vSpan, OriginNeighbor)})
	}
	if d := n.Left - t.Right; math.Abs(d) <= tol && t.CenterX <= n.CenterX {
		sn.considerX(candidate{offset: d, rel: relOppositeEdge, guide: vGuide(n.Left, vSpan, OriginNeighbor)})
	}

	// X axis, same edges and centers.
	if d := n.Left - t.Left; math.Abs(d) <= tol {
		sn.considerX(candidate{offset: d, rel: relSameEdge, guide: vGuide(n.Left, vSpan, OriginNeighbor)})
	}
	if d := n.Right - t.Right; math.Abs(d) <= tol {
		sn.considerX(candidate{offset: d, rel: relSameEdge, guide: vGuide(n.Right, vSpan, OriginNeighbor)})
	}
	if d := n.CenterX - t.CenterX; math.Abs(d) <= tol {
		sn.considerX(candidate{offset: d, rel: relSameEdge, guide: vGuide(n.CenterX, vSpan, OriginNeighbor)})
	}

	// Y axis, opposite edges.
	if d := n.Bottom - t.Top; math.Abs(d) <= tol && t.CenterY >= n.CenterY {
		sn.considerY(candidate{offset: d, rel: relOppositeEdge, guide: hGuide(n.Bottom, hSpan, OriginNeighbor)})
	}
	if d := n.Top - t.Bottom; math.Abs(d) <= tol && t.CenterY <= n.CenterY {
		sn.considerY(candidate{offset: d, rel: relOppositeEdge, guide: hGuide(n.Top, hSpan, OriginNeighbor)})
	}

	// Y axis, same edges and centers.
	if d := n.Top - t.Top; math.Abs(d) <= tol {
		sn.considerY(candidate{offset: d, rel: relSameEdge, guide: hGuide(n.Top, hSpan, OriginNeighbor)})
	}
	if d := n.Bottom - t.Bottom; math.Abs(d) <= tol {
		sn.considerY(candidate{offset: d, rel: relSameEdge, guide: hGuide(n.Bottom, hSpan, OriginNeighbor)})
	}
	if d := n.CenterY - t.CenterY; math.Abs(d) <= tol {
		sn.considerY(candidate{offset: d, rel: relSameEdge, guide: hGuide(n.CenterY, hSpan, OriginNeighbor)})
	}
}

// considerViewport proposes center alignment against the world-space center
// of the visible canvas.
func (sn *SnapSmart) considerViewport(t Sides, vp Viewport) {
	center := vp.WorldCenter()
	world := vp.WorldRect()
	tol := sn.cfg.Tolerance

	if d := center.X - t.CenterX; math.Abs(d) <= tol {
		sn.considerX(candidate{
			offset: d,
			rel:    relSameEdge,
			guide:  vGuide(center.X, [2]float64{world.Y, world.Bottom()}, OriginViewport),
		})
	}
	if d := center.Y - t.CenterY; math.Abs(d) <= tol {
		sn.considerY(candidate{
			offset: d,
			rel:    relSameEdge,
			guide:  hGuide(center.Y, [2]float64{world.X, world.Right()}, OriginViewport),
		})
	}
}

// considerSpacing infers a uniform gap from the neighbor sequence on each
// axis and proposes placing the target one gap beyond its nearest neighbor.
func (sn *SnapSmart) considerSpacing(t Sides, neighbors []Shape) {
	if len(neighbors) < 3 {
		return
	}

	xs := make([]Sides, len(neighbors))
	for i, n := range neighbors {
		xs[i] = n.Sides()
	}

	if c, ok := spacingCandidate(t, xs, true, sn.cfg); ok {
		sn.considerX(c)
	}
	if c, ok := spacingCandidate(t, xs, false, sn.cfg); ok {
		sn.considerY(c)
	}
}

// spacingCandidate works on one axis. horizontal selects the X axis.
func spacingCandidate(t Sides, neighbors []Sides, horizontal bool, cfg SnapConfig) (candidate, bool) {
	type span struct{ lo, hi, center float64 }

	spans := make([]span, len(neighbors))
	for i, n := range neighbors {
		if horizontal {
			spans[i] = span{lo: n.Left, hi: n.Right, center: n.CenterX}
		} else {
			spans[i] = span{lo: n.Top, hi: n.Bottom, center: n.CenterY}
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].center < spans[j].center })

	// Consecutive gaps between neighbor extents.
	gaps := make([]float64, 0, len(spans)-1)
	for i := 1; i < len(spans); i++ {
		gaps = append(gaps, spans[i].lo-spans[i-1].hi)
	}
	if len(gaps) < 2 {
		return candidate{}, false
	}

	spacing, score := gapConsistency(gaps)
	if score < cfg.SpacingConfidence || spacing <= 0 {
		return candidate{}, false
	}

	tLo, tHi, tCenter := t.Top, t.Bottom, t.CenterY
	if horizontal {
		tLo, tHi, tCenter = t.Left, t.Right, t.CenterX
	}

	// Place the target one inferred gap beyond the nearest neighbor on the
	// side of the sequence the target currently sits on.
	var offset, guidePos float64
	if tCenter >= spans[len(spans)-1].center {
		want := spans[len(spans)-1].hi + spacing
		offset = want - tLo
		guidePos = want
	} else if tCenter <= spans[0].center {
		want := spans[0].lo - spacing
		offset = want - tHi
		guidePos = want
	} else {
		// Target sits inside the sequence: align to one gap after the
		// nearest preceding neighbor.
		prev := spans[0]
		for _, s := range spans {
			if s.center > tCenter {
				break
			}
			prev = s
		}
		want := prev.hi + spacing
		offset = want - tLo
		guidePos = want
	}

	if math.Abs(offset) > cfg.SpacingTolerance {
		return candidate{}, false
	}

	if horizontal {
		return candidate{offset: offset, rel: relSpacing, guide: vGuide(guidePos, [2]float64{t.Top, t.Bottom}, OriginSpacing)}, true
	}
	return candidate{offset: offset, rel: relSpacing, guide: hGuide(guidePos, [2]float64{t.Left, t.Right}, OriginSpacing)}, true
}

// gapConsistency scores how uniform a gap sequence is: 1 is perfectly even,
// 0 or below means the spread is as large as the mean. Returns the mean gap
// and the score.
func gapConsistency(gaps []float64) (mean, score float64) {
	for _, g := range gaps {
		mean += g
	}
	mean /= float64(len(gaps))
	if mean <= 0 {
		return mean, 0
	}

	var variance float64
	for _, g := range gaps {
		d := g - mean
		variance += d * d
	}
	variance /= float64(len(gaps))

	cv := math.Sqrt(variance) / mean
	return mean, 1 - cv
}

func vGuide(x float64, span [2]float64, origin SnapOrigin) Guide {
	return Guide{Vertical: true, Position: x, Start: span[0], End: span[1], Origin: origin}
}

func hGuide(y float64, span [2]float64, origin SnapOrigin) Guide {
	return Guide{Vertical: false, Position: y, Start: span[0], End: span[1], Origin: origin}
}
