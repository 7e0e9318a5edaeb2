package canvas

import "time"

// A single coordinate pair on the drawing surface
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identifies the drawable primitive a Shape represents
type Kind string

const (
	KindFreehand  Kind = "freehand-path"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindText      Kind = "text"
	KindArrow     Kind = "arrow"
	KindLine      Kind = "line"
)

// Shape is one drawable element of a room's canvas. Geometry fields are
// pointers so that only the ones meaningful for the shape's kind appear on
// the wire; which fields a client fills in is not validated.
type Shape struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"type"`
	Points      []Point   `json:"points,omitempty"`
	X           *float64  `json:"x,omitempty"`
	Y           *float64  `json:"y,omitempty"`
	Width       *float64  `json:"width,omitempty"`
	Height      *float64  `json:"height,omitempty"`
	Radius      *float64  `json:"radius,omitempty"`
	Text        *string   `json:"text,omitempty"`
	StrokeColor string    `json:"color"`
	StrokeWidth float64   `json:"strokeWidth"`
	FillColor   *string   `json:"fill,omitempty"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Patch carries the geometry fields a shape may change after creation.
// A nil field means "leave as is".
type Patch struct {
	Points *[]Point
	Width  *float64
	Height *float64
}
