package editor

import (
	"math"
	"testing"
)

func testViewport() Viewport {
	return Viewport{Width: 2000, Height: 2000, Zoom: 1}
}

// snapper binds a single-shape target. The target is marked selected, as it
// would be during a real drag, so the neighbor filter skips it.
func snapper(cfg SnapConfig, target Shape) *SnapSmart {
	target.Meta().Selected = true
	sn := NewSnapSmart(cfg)
	sn.Bind(TargetShape(target))
	return sn
}

func TestSnapSameEdge(t *testing.T) {
	tests := []struct {
		name   string
		target *Rectangle
		want   float64 // expected left edge after Commit
	}{
		// Same-edge alignment is direction agnostic: the target snaps to the
		// neighbor's left edge approaching from either side.
		{"approach from right", makeRect("t", 103, 300, 50, 50), 100},
		{"approach from left", makeRect("t", 97, 300, 50, 50), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			neighbor := makeRect("n", 100, 100, 50, 50)
			sn := snapper(SnapConfig{}, tt.target)

			sn.Update([]Shape{neighbor, tt.target}, testViewport())
			sn.Commit()

			if !almostEqual(tt.target.Sides().Left, tt.want) {
				t.Errorf("left = %v, want %v", tt.target.Sides().Left, tt.want)
			}
		})
	}
}

func TestSnapIgnoresSelectedAndHidden(t *testing.T) {
	target := makeRect("t", 103, 300, 50, 50)

	selected := makeRect("sel", 100, 300, 50, 50)
	selected.Selected = true
	hidden := makeRect("hid", 100, 300, 50, 50)
	hidden.Visible = false

	sn := snapper(SnapConfig{}, target)
	sn.Update([]Shape{selected, hidden, target}, testViewport())

	if len(sn.Guides()) != 0 {
		t.Errorf("expected no candidates, got guides %+v", sn.Guides())
	}
	if target.Pos.X != 103 {
		t.Errorf("target moved to %v", target.Pos.X)
	}
}

func TestSnapOppositeEdge(t *testing.T) {
	// Neighbor occupies x in [100, 150].
	neighbor := makeRect("n", 100, 100, 50, 50)

	t.Run("abut from the right", func(t *testing.T) {
		target := makeRect("t", 153, 100, 50, 50)
		sn := snapper(SnapConfig{}, target)

		sn.Update([]Shape{neighbor, target}, testViewport())
		sn.Commit()

		if !almostEqual(target.Sides().Left, 150) {
			t.Errorf("left = %v, want 150", target.Sides().Left)
		}
	})

	t.Run("abut from the left", func(t *testing.T) {
		target := makeRect("t", 53, 100, 50, 50)
		sn := snapper(SnapConfig{}, target)

		sn.Update([]Shape{neighbor, target}, testViewport())
		sn.Commit()

		if !almostEqual(target.Sides().Right, 100) {
			t.Errorf("right = %v, want 100", target.Sides().Right)
		}
	})
}

func TestSnapPriorityOrder(t *testing.T) {
	// A same-edge candidate beats an opposite-edge candidate even when the
	// opposite-edge offset is smaller.
	target := makeRect("t", 103, 300, 50, 50)
	sameEdge := makeRect("a", 100, 100, 50, 50) // left-to-left offset -3
	abut := makeRect("b", 54, 300, 50, 50)      // right edge at 104: abutment offset 1

	sn := snapper(SnapConfig{}, target)
	sn.Update([]Shape{sameEdge, abut, target}, testViewport())
	sn.Commit()

	if !almostEqual(target.Sides().Left, 100) {
		t.Errorf("left = %v, want 100 (same-edge wins over opposite-edge)", target.Sides().Left)
	}
}

func TestSnapSpacingBeatsEdges(t *testing.T) {
	// Three neighbors at a uniform 50 gap; the target sits near the slot one
	// gap beyond the last. The viewport center offers an exact same-edge
	// candidate, but spacing has higher priority.
	shapes := []Shape{
		makeRect("a", 0, 300, 50, 50),
		makeRect("b", 100, 300, 50, 50),
		makeRect("c", 200, 300, 50, 50),
	}
	target := makeRect("t", 297, 300, 50, 50) // spacing slot wants left = 300

	vp := Viewport{Width: 644, Height: 2000, Zoom: 1} // center x = 322 = target center
	sn := snapper(SnapConfig{}, target)

	sn.Update(append(shapes, target), vp)
	sn.Commit()

	if !almostEqual(target.Sides().Left, 300) {
		t.Errorf("left = %v, want spacing slot 300", target.Sides().Left)
	}
}

func TestSnapSpacingGuideOrigin(t *testing.T) {
	shapes := []Shape{
		makeRect("a", 0, 300, 50, 50),
		makeRect("b", 100, 300, 50, 50),
		makeRect("c", 200, 300, 50, 50),
	}
	target := makeRect("t", 297, 600, 50, 50)

	sn := snapper(SnapConfig{}, target)
	sn.Update(append(shapes, target), Viewport{Width: 5000, Height: 5000, Zoom: 1})

	var spacing *Guide
	for i, g := range sn.Guides() {
		if g.Origin == OriginSpacing {
			spacing = &sn.Guides()[i]
		}
	}
	if spacing == nil {
		t.Fatalf("no spacing guide in %+v", sn.Guides())
	}
	if !spacing.Vertical || spacing.Position != 300 {
		t.Errorf("spacing guide = %+v, want vertical at 300", *spacing)
	}
}

func TestSnapSpacingNeedsConsistentGaps(t *testing.T) {
	// Gaps of 50 and 10 are wildly inconsistent; no spacing is inferred.
	shapes := []Shape{
		makeRect("a", 0, 300, 50, 50),
		makeRect("b", 100, 300, 50, 50),
		makeRect("c", 160, 300, 50, 50),
	}
	target := makeRect("t", 262, 300, 50, 50)

	sn := snapper(SnapConfig{Tolerance: 5}, target)
	sn.Update(append(shapes, target), Viewport{Width: 5000, Height: 5000, Zoom: 1})

	for _, g := range sn.Guides() {
		if g.Origin == OriginSpacing {
			t.Errorf("unexpected spacing guide %+v", g)
		}
	}
}

func TestSnapSpacingNeedsThreeNeighbors(t *testing.T) {
	shapes := []Shape{
		makeRect("a", 0, 300, 50, 50),
		makeRect("b", 100, 300, 50, 50),
	}
	target := makeRect("t", 198, 600, 50, 50)

	sn := snapper(SnapConfig{}, target)
	sn.Update(append(shapes, target), Viewport{Width: 5000, Height: 5000, Zoom: 1})

	for _, g := range sn.Guides() {
		if g.Origin == OriginSpacing {
			t.Errorf("unexpected spacing guide with only two neighbors: %+v", g)
		}
	}
}

func TestSnapViewportCenter(t *testing.T) {
	target := makeRect("t", 488, 300, 50, 50) // center x = 513
	vp := Viewport{Width: 1024, Height: 768, Zoom: 1}

	sn := snapper(SnapConfig{}, target)
	sn.Update([]Shape{target}, vp)

	guides := sn.Guides()
	if len(guides) != 1 || !guides[0].Vertical || guides[0].Origin != OriginViewport {
		t.Fatalf("guides = %+v, want one vertical viewport guide", guides)
	}

	sn.Commit()
	if !almostEqual(target.Sides().CenterX, 512) {
		t.Errorf("center = %v, want 512", target.Sides().CenterX)
	}
	// Commit clears guides; they only exist during the gesture.
	if len(sn.Guides()) != 0 {
		t.Error("expected guides cleared after Commit")
	}
}

func TestSnapEasingConvergesAndCommitLandsExactly(t *testing.T) {
	target := makeRect("t", 103, 300, 50, 50)
	neighbor := makeRect("n", 100, 100, 50, 50)

	sn := snapper(SnapConfig{Easing: 0.25}, target)
	vp := testViewport()
	shapes := []Shape{neighbor, target}

	sn.Update(shapes, vp)
	if !almostEqual(target.Pos.X, 103-3*0.25) {
		t.Fatalf("after one tick x = %v, want %v", target.Pos.X, 103-3*0.25)
	}

	// Each tick closes a fraction of the remaining distance.
	prev := math.Abs(target.Pos.X - 100)
	for i := 0; i < 20; i++ {
		sn.Update(shapes, vp)
		cur := math.Abs(target.Pos.X - 100)
		if cur > prev {
			t.Fatalf("distance grew from %v to %v on tick %d", prev, cur, i)
		}
		prev = cur
	}
	if prev == 0 {
		t.Fatal("easing alone should not land exactly")
	}

	// Pointer-up applies the remainder in one step.
	sn.Commit()
	if !almostEqual(target.Pos.X, 100) {
		t.Errorf("after commit x = %v, want exactly 100", target.Pos.X)
	}
}

func TestSnapGuides(t *testing.T) {
	// Left edge aligns with the neighbor's left; top abuts the neighbor's
	// bottom. One guide per winning axis.
	target := makeRect("t", 103, 153, 50, 50)
	neighbor := makeRect("n", 100, 100, 50, 50)

	sn := snapper(SnapConfig{}, target)
	sn.Update([]Shape{neighbor, target}, testViewport())

	guides := sn.Guides()
	if len(guides) != 2 {
		t.Fatalf("got %d guides, want one per axis", len(guides))
	}

	var vertical, horizontal *Guide
	for i := range guides {
		if guides[i].Vertical {
			vertical = &guides[i]
		} else {
			horizontal = &guides[i]
		}
	}
	if vertical == nil || horizontal == nil {
		t.Fatalf("guides = %+v, want one vertical and one horizontal", guides)
	}
	if vertical.Position != 100 || vertical.Origin != OriginNeighbor {
		t.Errorf("vertical guide = %+v, want position 100 from neighbor", *vertical)
	}
	// The guide spans both participants.
	if vertical.Start != 100 || vertical.End != 203 {
		t.Errorf("vertical span = (%v, %v), want (100, 203)", vertical.Start, vertical.End)
	}
	if horizontal.Position != 150 {
		t.Errorf("horizontal position = %v, want 150", horizontal.Position)
	}
}

func TestSnapUnbindIsIdempotent(t *testing.T) {
	sn := NewSnapSmart(SnapConfig{})

	sn.Unbind()
	sn.Unbind()
	if sn.Bound() {
		t.Fatal("expected unbound")
	}

	// Update and Commit are no-ops without a target.
	sn.Update([]Shape{makeRect("a", 0, 0, 10, 10)}, testViewport())
	sn.Commit()

	target := makeRect("t", 103, 300, 50, 50)
	sn.Bind(TargetShape(target))
	if !sn.Bound() {
		t.Fatal("expected bound")
	}
	sn.Unbind()
	sn.Unbind()
	if sn.Bound() || len(sn.Guides()) != 0 {
		t.Error("expected clean state after double unbind")
	}
}

func TestSnapGroupTarget(t *testing.T) {
	tr := NewTransformer(TransformerConfig{})
	a := makeRect("a", 103, 300, 50, 50)
	b := makeRect("b", 163, 300, 50, 50)
	tr.Select([]Shape{a, b})

	neighbor := makeRect("n", 100, 100, 50, 50)

	sn := NewSnapSmart(SnapConfig{})
	sn.Bind(TargetGroup(tr))

	// Group box left is 103; the whole group moves together by -3.
	sn.Update([]Shape{neighbor, a, b}, testViewport())
	sn.Commit()

	if !almostEqual(a.Pos.X, 100) {
		t.Errorf("a.x = %v, want 100", a.Pos.X)
	}
	if !almostEqual(b.Pos.X, 160) {
		t.Errorf("b.x = %v, want 160 (relative offset preserved)", b.Pos.X)
	}
}
