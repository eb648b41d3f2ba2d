package game

// Input is a paddle velocity change for one side.
type Input struct {
	Side     Side    `json:"side"`
	Velocity float64 `json:"velocity"`
}

// Keyboard bindings for the two local control schemes.
const (
	KeyLeftUp    = "w"
	KeyLeftDown  = "s"
	KeyRightUp   = "ArrowUp"
	KeyRightDown = "ArrowDown"
)

// KeyControls turns key down/up events into paddle inputs. Pressing a key
// sets its side's velocity to ±speed; a side only stops once both of its
// keys are released. When both keys of a side are held, down wins.
type KeyControls struct {
	speed   float64
	pressed map[string]bool
}

func NewKeyControls(paddleSpeed float64) *KeyControls {
	return &KeyControls{speed: paddleSpeed, pressed: make(map[string]bool)}
}

// KeyDown records a press and returns the inputs it produces.
func (k *KeyControls) KeyDown(key string) []Input {
	k.pressed[key] = true

	var out []Input
	if v, ok := k.velocity(KeyLeftUp, KeyLeftDown); ok {
		out = append(out, Input{Side: SideLeft, Velocity: v})
	}
	if v, ok := k.velocity(KeyRightUp, KeyRightDown); ok {
		out = append(out, Input{Side: SideRight, Velocity: v})
	}
	return out
}

// KeyUp records a release and returns stop inputs for idle sides.
func (k *KeyControls) KeyUp(key string) []Input {
	k.pressed[key] = false

	var out []Input
	if !k.pressed[KeyLeftUp] && !k.pressed[KeyLeftDown] {
		out = append(out, Input{Side: SideLeft})
	}
	if !k.pressed[KeyRightUp] && !k.pressed[KeyRightDown] {
		out = append(out, Input{Side: SideRight})
	}
	return out
}

func (k *KeyControls) velocity(up, down string) (float64, bool) {
	switch {
	case k.pressed[down]:
		return -k.speed, true
	case k.pressed[up]:
		return k.speed, true
	}
	return 0, false
}

// Speed returns the magnitude of the velocity a key press sets.
func (k *KeyControls) Speed() float64 {
	return k.speed
}
