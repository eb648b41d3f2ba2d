package game

import "testing"

func TestKeyControlsPressAndRelease(t *testing.T) {
	k := NewKeyControls(2)

	in := k.KeyDown(KeyLeftUp)
	if len(in) != 1 || in[0] != (Input{Side: SideLeft, Velocity: 2}) {
		t.Fatalf("unexpected inputs for w down: %+v", in)
	}

	in = k.KeyDown(KeyRightDown)
	if len(in) != 2 || in[1] != (Input{Side: SideRight, Velocity: -2}) {
		t.Fatalf("unexpected inputs for ArrowDown: %+v", in)
	}

	// releasing w stops only the left paddle
	in = k.KeyUp(KeyLeftUp)
	if len(in) != 1 || in[0] != (Input{Side: SideLeft}) {
		t.Fatalf("unexpected inputs for w up: %+v", in)
	}
}

func TestKeyControlsDownWinsWhenBothHeld(t *testing.T) {
	k := NewKeyControls(3)
	k.KeyDown(KeyLeftUp)
	in := k.KeyDown(KeyLeftDown)
	if len(in) != 1 || in[0].Velocity != -3 {
		t.Fatalf("expected down to win, got %+v", in)
	}

	// still holding w, so the side keeps moving
	in = k.KeyUp(KeyLeftDown)
	for _, i := range in {
		if i.Side == SideLeft {
			t.Errorf("left side should not stop while w is held")
		}
	}
}

func TestKeyControlsIgnoresUnknownKeys(t *testing.T) {
	k := NewKeyControls(2)
	if in := k.KeyDown("x"); len(in) != 0 {
		t.Errorf("unexpected inputs: %+v", in)
	}
}
