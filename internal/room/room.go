package room

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/inkwell-app/inkwell/backend/internal/canvas"
)

// Colors participants are stamped with at join time. Picks are uniform-random
// and collisions inside a room are accepted.
var palette = [...]string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
}

// Participant is one live connection's identity inside a room.
type Participant struct {
	ID          string        `json:"id"`
	RoomID      string        `json:"-"`
	DisplayName string        `json:"username"`
	Color       string        `json:"color"`
	Cursor      *canvas.Point `json:"cursor,omitempty"`
}

// Room groups a shape store, its undo history and the live participant set
// for one collaborative session.
type Room struct {
	ID     string
	Name   string
	Canvas *canvas.Store

	mu           sync.RWMutex
	participants map[string]*Participant
}

func newRoom(id string) *Room {
	return &Room{
		ID:           id,
		Name:         displayName(id),
		Canvas:       canvas.NewStore(),
		participants: make(map[string]*Participant),
	}
}

// Derives a presentation name from the raw room id
func displayName(id string) string {
	name := strings.NewReplacer("-", " ", "_", " ").Replace(id)
	name = strings.TrimSpace(name)
	if name == "" {
		return id
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Registers a participant with a freshly picked palette color. An empty
// display name falls back to a truncated form of the id.
func (r *Room) Join(id, name string) *Participant {
	if name == "" {
		name = id
		if len(name) > 8 {
			name = name[:8]
		}
	}

	p := &Participant{
		ID:          id,
		RoomID:      r.ID,
		DisplayName: name,
		Color:       palette[rand.Intn(len(palette))],
	}

	r.mu.Lock()
	r.participants[p.ID] = p
	r.mu.Unlock()
	return p
}

// Overwrites the participant's last known pointer position. Coordinates are
// taken as-is, off-canvas values included.
func (r *Room) UpdateCursor(p *Participant, pos canvas.Point) {
	r.mu.Lock()
	p.Cursor = &pos
	r.mu.Unlock()
}

// Removes the participant and reports whether the room is now empty.
func (r *Room) Leave(p *Participant) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, p.ID)
	return len(r.participants) == 0
}

// Returns a value-copy snapshot of the live participant set
func (r *Room) Participants() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	return out
}

func (r *Room) ParticipantCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

// Reports whether the given color belongs to the palette
func PaletteContains(color string) bool {
	for _, c := range palette {
		if c == color {
			return true
		}
	}
	return false
}
