package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/inkwell-app/inkwell/backend/internal/canvas"
	"github.com/inkwell-app/inkwell/backend/internal/room"
)

// Archive is the optional teardown collaborator. When present it receives
// each room's final shape list as the room dies and is consulted once when a
// room id is first seen, so a restored room starts from its archived state.
type Archive interface {
	SaveSnapshot(roomID, name string, shapes []canvas.Shape) error
	LoadSnapshot(roomID string) ([]canvas.Shape, error)
}

// Hub owns every live session and serializes all state mutation through its
// Run loop, one inbound message at a time. That single goroutine is what
// gives each room its total ordering guarantee; nothing else writes rooms.
type Hub struct {
	directory *room.Directory
	archive   Archive

	// connection maps, guarded for the read-only stats surface
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	inbound    chan *frame

	limitRate  float64
	limitBurst int

	now func() time.Time
}

// One raw message read off a connection, waiting for the Run loop
type frame struct {
	client *Client
	data   []byte
}

func NewHub(archive Archive) *Hub {
	return &Hub{
		directory:  room.NewDirectory(),
		archive:    archive,
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan *frame, 256),
		limitRate:  messagesPerSecond,
		limitBurst: messageBurst,
		now:        time.Now,
	}
}

// Overrides the per-connection message rate limit; rate <= 0 disables it.
func (h *Hub) SetRateLimit(rate float64, burst int) {
	h.limitRate = rate
	h.limitBurst = burst
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.disconnect(c)

		case f := <-h.inbound:
			h.dispatch(f.client, f.data)
		}
	}
}

// Routes one raw message. A payload that does not parse, arrives before a
// join, or names an unknown type is dropped without a reply; the connection
// stays open either way.
func (h *Hub) dispatch(c *Client, data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		slog.Debug("dropping unparseable message", "client", c.id, "err", err)
		return
	}

	if msg.Type == TypeJoin {
		h.handleJoin(c, &msg)
		return
	}
	if c.participant == nil {
		return
	}

	switch msg.Type {
	case TypeCursorMove:
		h.handleCursorMove(c, &msg)
	case TypeDrawStart:
		h.handleDrawStart(c, &msg)
	case TypeDrawUpdate:
		h.handleDrawUpdate(c, &msg)
	case TypeShapeDelete:
		h.handleShapeDelete(c, &msg)
	case TypeClearCanvas:
		h.handleClearCanvas(c)
	case TypeUndo:
		h.handleUndo(c)
	default:
		slog.Debug("dropping unknown message type", "client", c.id, "type", msg.Type)
	}
}

func (h *Hub) handleJoin(c *Client, msg *inbound) {
	if msg.RoomID == "" {
		return
	}

	// A repeat join re-runs the whole sequence. When it names a different
	// room the connection is pulled out of its current one first so no
	// orphan participant lingers there. A rejoin of the same room must not
	// go through teardown: for a sole participant that would wipe the very
	// state the rejoin is about to be sent in init.
	if c.participant != nil && c.room.ID != msg.RoomID {
		h.leaveRoom(c)
	}

	rm, created := h.directory.GetOrCreate(msg.RoomID)
	if created && h.archive != nil {
		if shapes, err := h.archive.LoadSnapshot(rm.ID); err != nil {
			slog.Warn("archive restore failed", "room", rm.ID, "err", err)
		} else if shapes != nil {
			rm.Canvas.Seed(shapes)
		}
	}

	p := rm.Join(c.id, msg.Username)
	c.room = rm
	c.participant = p

	h.mu.Lock()
	conns, ok := h.rooms[rm.ID]
	if !ok {
		conns = make(map[*Client]bool)
		h.rooms[rm.ID] = conns
	}
	conns[c] = true
	total := len(conns)
	h.mu.Unlock()

	h.send(c, initMsg{
		Type:     TypeInit,
		ClientID: p.ID,
		Color:    p.Color,
		Shapes:   rm.Canvas.Shapes(),
		Users:    h.peersOf(rm, p.ID),
	})
	h.broadcast(rm.ID, c, userJoinedMsg{Type: TypeUserJoined, User: userInfoFor(p)})

	slog.Info("participant joined", "room", rm.ID, "client", p.ID, "participants", total)
}

// Everyone already in the room, minus the joiner itself
func (h *Hub) peersOf(rm *room.Room, selfID string) []userInfo {
	parts := rm.Participants()
	users := make([]userInfo, 0, len(parts))
	for i := range parts {
		if parts[i].ID == selfID {
			continue
		}
		users = append(users, userInfoFor(&parts[i]))
	}
	return users
}

func (h *Hub) handleCursorMove(c *Client, msg *inbound) {
	if msg.Position == nil {
		return
	}
	c.room.UpdateCursor(c.participant, *msg.Position)
	h.broadcast(c.room.ID, c, cursorUpdateMsg{
		Type:     TypeCursorUpdate,
		UserID:   c.participant.ID,
		Position: *msg.Position,
	})
}

func (h *Hub) handleDrawStart(c *Client, msg *inbound) {
	shape := canvas.Shape{
		ID:          msg.ShapeID,
		Kind:        canvas.Kind(msg.ShapeType),
		X:           msg.X,
		Y:           msg.Y,
		Width:       msg.Width,
		Height:      msg.Height,
		Radius:      msg.Radius,
		Text:        msg.Text,
		StrokeColor: msg.Color,
		StrokeWidth: msg.StrokeWidth,
		FillColor:   msg.Fill,
		OwnerID:     c.participant.ID,
		CreatedAt:   h.now().UTC(),
	}
	if msg.Points != nil {
		shape.Points = *msg.Points
	}

	c.room.Canvas.Append(shape)
	h.broadcast(c.room.ID, c, shapeAddedMsg{Type: TypeShapeAdded, Shape: shape})
}

func (h *Hub) handleDrawUpdate(c *Client, msg *inbound) {
	c.room.Canvas.Update(msg.ShapeID, canvas.Patch{
		Points: msg.Points,
		Width:  msg.Width,
		Height: msg.Height,
	})
	h.broadcast(c.room.ID, c, shapeUpdatedMsg{
		Type:    TypeShapeUpdated,
		ShapeID: msg.ShapeID,
		Points:  msg.Points,
		Width:   msg.Width,
		Height:  msg.Height,
	})
}

func (h *Hub) handleShapeDelete(c *Client, msg *inbound) {
	c.room.Canvas.Remove(msg.ShapeID)
	h.broadcast(c.room.ID, c, shapeDeletedMsg{Type: TypeShapeDeleted, ShapeID: msg.ShapeID})
}

// Clears are undoable and, unlike drawing edits, announced to the sender too:
// the sender applied its own clear optimistically but every client keys its
// "cleared by X" indicator off this event.
func (h *Hub) handleClearCanvas(c *Client) {
	c.room.Canvas.Clear()
	h.broadcast(c.room.ID, nil, canvasClearedMsg{Type: TypeCanvasCleared, UserID: c.participant.ID})
}

func (h *Hub) handleUndo(c *Client) {
	c.room.Canvas.RestoreLast()
	h.broadcast(c.room.ID, nil, canvasRestoredMsg{Type: TypeCanvasRestored, Shapes: c.room.Canvas.Shapes()})
}

// Tears a client down exactly once; the read loop's unregister and a failed
// broadcast delivery both funnel here.
func (h *Hub) disconnect(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	h.mu.Unlock()

	h.leaveRoom(c)
	close(c.send)
}

// Pulls the client out of its room, tears the room down when it empties, and
// announces the departure to whoever is left.
func (h *Hub) leaveRoom(c *Client) {
	rm, p := c.room, c.participant
	if rm == nil {
		return
	}
	c.room = nil
	c.participant = nil

	h.mu.Lock()
	if conns, ok := h.rooms[rm.ID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, rm.ID)
		}
	}
	h.mu.Unlock()

	if empty := rm.Leave(p); empty {
		if h.archive != nil {
			if err := h.archive.SaveSnapshot(rm.ID, rm.Name, rm.Canvas.Shapes()); err != nil {
				slog.Warn("archive save failed", "room", rm.ID, "err", err)
			}
		}
		h.directory.Remove(rm.ID)
		slog.Info("room closed", "room", rm.ID)
	}

	h.broadcast(rm.ID, nil, userLeftMsg{Type: TypeUserLeft, UserID: p.ID})
}

// Fans a message out to every connection in the room except skip. Delivery is
// best-effort: a client whose send buffer is full is cut loose rather than
// allowed to stall the rest of the room.
func (h *Hub) broadcast(roomID string, skip *Client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("broadcast marshal failed", "room", roomID, "err", err)
		return
	}

	h.mu.RLock()
	conns := h.rooms[roomID]
	recipients := make([]*Client, 0, len(conns))
	for c := range conns {
		if c != skip {
			recipients = append(recipients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range recipients {
		if !h.trySend(c, data) {
			slog.Warn("dropping slow client", "room", roomID, "client", c.id)
			h.disconnect(c)
		}
	}
}

func (h *Hub) send(c *Client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("send marshal failed", "client", c.id, "err", err)
		return
	}
	if !h.trySend(c, data) {
		h.disconnect(c)
	}
}

func (h *Hub) trySend(c *Client, data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Stats surface, read outside the Run loop

func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Returns connection counts per active room
func (h *Hub) ActiveRooms() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]int, len(h.rooms))
	for id, conns := range h.rooms {
		out[id] = len(conns)
	}
	return out
}

func (h *Hub) Directory() *room.Directory {
	return h.directory
}
