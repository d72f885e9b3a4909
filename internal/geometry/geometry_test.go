package geometry

import "testing"

func TestPointFromPixelsClampsOutOfBounds(t *testing.T) {
	rect := Rect{Left: 100, Top: 50, Width: 800, Height: 600}

	cases := []struct {
		name             string
		clientX, clientY float64
		wantX, wantY     float64
	}{
		{"center", 500, 350, 50, 50},
		{"top left corner", 100, 50, 0, 0},
		{"bottom right corner", 900, 650, 100, 100},
		{"left of container", -400, 350, 0, 50},
		{"far below container", 500, 5000, 50, 100},
		{"both axes out", 10000, -10000, 100, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := PointFromPixels(rect, tc.clientX, tc.clientY)
			if p.X != tc.wantX || p.Y != tc.wantY {
				t.Fatalf("got (%v,%v), want (%v,%v)", p.X, p.Y, tc.wantX, tc.wantY)
			}
			if p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 100 {
				t.Fatalf("point outside percent space: %+v", p)
			}
		})
	}
}

func TestPointFromPixelsDegenerateRect(t *testing.T) {
	p := PointFromPixels(Rect{}, 10, 10)
	if p.X != 0 || p.Y != 0 {
		t.Fatalf("expected origin for zero-size rect, got %+v", p)
	}
}

func TestBoxFromDragNormalizesCorners(t *testing.T) {
	box := BoxFromDrag(Point{X: 60, Y: 70}, Point{X: 20, Y: 30})
	if box.X != 20 || box.Y != 30 || box.Width != 40 || box.Height != 40 {
		t.Fatalf("unexpected box: %+v", box)
	}
}

func TestMeetsMinSizeGate(t *testing.T) {
	if (Box{Width: 0.5, Height: 5}).MeetsMinSize() {
		t.Fatal("sub-threshold width must not commit")
	}
	if (Box{Width: 5, Height: 1}).MeetsMinSize() {
		t.Fatal("height exactly at threshold must not commit")
	}
	if !(Box{Width: 2, Height: 2}).MeetsMinSize() {
		t.Fatal("2x2 box must commit")
	}
}

func TestClampShrinksOverflowingBox(t *testing.T) {
	box := Box{X: 80, Y: 95, Width: 50, Height: 30}.Clamp()
	if box.X+box.Width > 100 || box.Y+box.Height > 100 {
		t.Fatalf("box still overflows frame: %+v", box)
	}
	if box.Width != 20 || box.Height != 5 {
		t.Fatalf("unexpected clamped size: %+v", box)
	}

	neg := Box{X: -10, Y: -10, Width: 5, Height: 5}.Clamp()
	if neg.X != 0 || neg.Y != 0 {
		t.Fatalf("negative origin not clamped: %+v", neg)
	}
}

func TestContains(t *testing.T) {
	box := Box{X: 10, Y: 10, Width: 20, Height: 20}
	if !box.Contains(Point{X: 10, Y: 10}) || !box.Contains(Point{X: 30, Y: 30}) {
		t.Fatal("edges should be inclusive")
	}
	if box.Contains(Point{X: 30.1, Y: 30}) {
		t.Fatal("point outside box reported as contained")
	}
}
