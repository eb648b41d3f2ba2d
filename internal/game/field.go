package game

import "errors"

// Field and body dimensions in field units. The field is centred on the origin.
const (
	FieldWidth   = 100.0
	FieldHeight  = 60.0
	PaddleWidth  = 3.0
	PaddleHeight = 14.0
	PaddleDepth  = 2.0
	BallDiameter = 4.0
	PaddleInset  = 5.0 // distance from the goal line to a paddle's centre
)

// PaddleSize holds the box dimensions of a paddle.
type PaddleSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// FieldGeometry is the immutable playing field description.
type FieldGeometry struct {
	Width        float64    `json:"width"`
	Height       float64    `json:"height"`
	Paddle       PaddleSize `json:"paddle"`
	BallDiameter float64    `json:"ball_diameter"`
	PaddleInset  float64    `json:"paddle_inset"`
}

// DefaultField returns the standard tournament field.
func DefaultField() FieldGeometry {
	return FieldGeometry{
		Width:        FieldWidth,
		Height:       FieldHeight,
		Paddle:       PaddleSize{Width: PaddleWidth, Height: PaddleHeight, Depth: PaddleDepth},
		BallDiameter: BallDiameter,
		PaddleInset:  PaddleInset,
	}
}

// Validate checks that all dimensions are positive and a paddle fits the field.
func (f FieldGeometry) Validate() error {
	if f.Width <= 0 || f.Height <= 0 || f.BallDiameter <= 0 ||
		f.Paddle.Width <= 0 || f.Paddle.Height <= 0 || f.Paddle.Depth <= 0 {
		return errors.New("field dimensions must be positive")
	}
	if f.Paddle.Height >= f.Height {
		return errors.New("paddle height must be smaller than field height")
	}
	if f.PaddleInset <= 0 || f.PaddleInset >= f.Width/2 {
		return errors.New("paddle inset must lie inside the half field")
	}
	return nil
}

func (f FieldGeometry) HalfWidth() float64 {
	return f.Width / 2
}

func (f FieldGeometry) HalfHeight() float64 {
	return f.Height / 2
}

// MaxPaddleOffset is the largest distance a paddle centre may travel from the midline.
func (f FieldGeometry) MaxPaddleOffset() float64 {
	return f.Height/2 - f.Paddle.Height/2
}

// PaddleX returns the fixed horizontal slot of the paddle on the given side.
func (f FieldGeometry) PaddleX(side Side) float64 {
	if side == SideLeft {
		return -f.Width/2 + f.PaddleInset
	}
	return f.Width/2 - f.PaddleInset
}
