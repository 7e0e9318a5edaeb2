package room

import "sync"

// Directory is the process-wide room index. Rooms come into existence on the
// first join for an unknown id and are removed the moment the last
// participant leaves; nothing survives removal.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewDirectory() *Directory {
	return &Directory{
		rooms: make(map[string]*Room),
	}
}

// Returns the room for the given id, constructing an empty one when the id is
// unknown. The second return reports whether this call created it.
func (d *Directory) GetOrCreate(id string) (*Room, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if r, ok := d.rooms[id]; ok {
		return r, false
	}
	r := newRoom(id)
	d.rooms[id] = r
	return r, true
}

// Drops the room from the index. A later GetOrCreate for the same id starts
// from a fresh, empty room.
func (d *Directory) Remove(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.rooms, id)
}

func (d *Directory) Get(id string) *Room {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rooms[id]
}

func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

// Returns a snapshot of the live rooms for the read-only ops surface
func (d *Directory) List() []*Room {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*Room, 0, len(d.rooms))
	for _, r := range d.rooms {
		out = append(out, r)
	}
	return out
}
