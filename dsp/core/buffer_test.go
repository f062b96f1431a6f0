package core

import "testing"

func TestEnsureLenReuse(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 {
		t.Fatalf("len = %d, want 6", len(out))
	}

	if cap(out) != cap(buf) {
		t.Fatalf("cap = %d, want %d", cap(out), cap(buf))
	}

	if got := EnsureLen(buf, 0); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestEnsureLenGrows(t *testing.T) {
	out := EnsureLen(make([]float32, 1), 5)
	if len(out) != 5 {
		t.Fatalf("len = %d, want 5", len(out))
	}
}

func TestConvert(t *testing.T) {
	dst := make([]float32, 2)

	n := Convert(dst, []float64{1.5, 2.5, 3.5})
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}

	if dst[0] != 1.5 || dst[1] != 2.5 {
		t.Fatalf("unexpected dst: %#v", dst)
	}
}

func TestPlanar(t *testing.T) {
	p := Planar[float64](3, 7)
	if len(p) != 3 {
		t.Fatalf("channels = %d, want 3", len(p))
	}
	for i, ch := range p {
		if len(ch) != 7 {
			t.Fatalf("channel %d len = %d, want 7", i, len(ch))
		}
	}
}
