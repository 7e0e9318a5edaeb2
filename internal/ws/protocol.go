package ws

import (
	"github.com/inkwell-app/inkwell/backend/internal/canvas"
	"github.com/inkwell-app/inkwell/backend/internal/room"
)

// Message types participants send
const (
	TypeJoin        = "join"
	TypeCursorMove  = "cursor-move"
	TypeDrawStart   = "draw-start"
	TypeDrawUpdate  = "draw-update"
	TypeShapeDelete = "shape-delete"
	TypeClearCanvas = "clear-canvas"
	TypeUndo        = "undo"
)

// Message types the gateway emits
const (
	TypeInit           = "init"
	TypeUserJoined     = "user-joined"
	TypeUserLeft       = "user-left"
	TypeCursorUpdate   = "cursor-update"
	TypeShapeAdded     = "shape-added"
	TypeShapeUpdated   = "shape-updated"
	TypeShapeDeleted   = "shape-deleted"
	TypeCanvasCleared  = "canvas-cleared"
	TypeCanvasRestored = "canvas-restored"
)

// inbound is the superset of fields across all client message types; Type
// decides which ones matter. Anything that fails to decode into it is
// dropped without a reply.
type inbound struct {
	Type        string          `json:"type"`
	RoomID      string          `json:"roomId"`
	Username    string          `json:"username"`
	Position    *canvas.Point   `json:"position"`
	ShapeID     string          `json:"shapeId"`
	ShapeType   string          `json:"shapeType"`
	Points      *[]canvas.Point `json:"points"`
	X           *float64        `json:"x"`
	Y           *float64        `json:"y"`
	Width       *float64        `json:"width"`
	Height      *float64        `json:"height"`
	Radius      *float64        `json:"radius"`
	Text        *string         `json:"text"`
	Color       string          `json:"color"`
	StrokeWidth float64         `json:"strokeWidth"`
	Fill        *string         `json:"fill"`
}

type userInfo struct {
	ID       string        `json:"id"`
	Username string        `json:"username"`
	Color    string        `json:"color"`
	Cursor   *canvas.Point `json:"cursor,omitempty"`
}

func userInfoFor(p *room.Participant) userInfo {
	return userInfo{
		ID:       p.ID,
		Username: p.DisplayName,
		Color:    p.Color,
		Cursor:   p.Cursor,
	}
}

// Sent to the joiner only, carrying the room's full current state
type initMsg struct {
	Type     string         `json:"type"`
	ClientID string         `json:"clientId"`
	Color    string         `json:"color"`
	Shapes   []canvas.Shape `json:"shapes"`
	Users    []userInfo     `json:"users"`
}

type userJoinedMsg struct {
	Type string   `json:"type"`
	User userInfo `json:"user"`
}

type userLeftMsg struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type cursorUpdateMsg struct {
	Type     string       `json:"type"`
	UserID   string       `json:"userId"`
	Position canvas.Point `json:"position"`
}

type shapeAddedMsg struct {
	Type  string       `json:"type"`
	Shape canvas.Shape `json:"shape"`
}

type shapeUpdatedMsg struct {
	Type    string          `json:"type"`
	ShapeID string          `json:"shapeId"`
	Points  *[]canvas.Point `json:"points,omitempty"`
	Width   *float64        `json:"width,omitempty"`
	Height  *float64        `json:"height,omitempty"`
}

type shapeDeletedMsg struct {
	Type    string `json:"type"`
	ShapeID string `json:"shapeId"`
}

type canvasClearedMsg struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// Carries the full replacement shape list after an undo
type canvasRestoredMsg struct {
	Type   string         `json:"type"`
	Shapes []canvas.Shape `json:"shapes"`
}
