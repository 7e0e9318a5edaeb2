package canvas

import "sync"

// Store holds one room's ordered shape list plus the snapshot stack that
// backs undo of bulk clears. Insertion order is z-order for rendering.
type Store struct {
	mu      sync.RWMutex
	shapes  []Shape
	history [][]Shape
}

func NewStore() *Store {
	return &Store{
		shapes: make([]Shape, 0),
	}
}

// Appends a shape at the top of the z-order. Duplicate ids are accepted;
// Update keys off the first match and Remove deletes every match.
func (s *Store) Append(shape Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shapes = append(s.shapes, shape)
}

// Shallow-merges the patch into the first shape with the given id.
// A miss is a silent no-op.
func (s *Store) Update(id string, patch Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.shapes {
		if s.shapes[i].ID != id {
			continue
		}
		if patch.Points != nil {
			s.shapes[i].Points = *patch.Points
		}
		if patch.Width != nil {
			s.shapes[i].Width = patch.Width
		}
		if patch.Height != nil {
			s.shapes[i].Height = patch.Height
		}
		return
	}
}

// Removes every shape with the given id
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.shapes[:0]
	for _, shape := range s.shapes {
		if shape.ID != id {
			kept = append(kept, shape)
		}
	}
	s.shapes = kept
}

// Pushes a value copy of the current list onto the history stack and empties
// the live list. Every clear pushes its own snapshot, so repeated undos walk
// back through prior clears most recent first.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]Shape, len(s.shapes))
	copy(snapshot, s.shapes)
	s.history = append(s.history, snapshot)
	s.shapes = make([]Shape, 0)
}

// Pops the most recent snapshot back into the live list. With an empty
// history the live list is left untouched.
func (s *Store) RestoreLast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) == 0 {
		return
	}
	s.shapes = s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
}

// Returns a copy of the live list in z-order
func (s *Store) Shapes() []Shape {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shapes := make([]Shape, len(s.shapes))
	copy(shapes, s.shapes)
	return shapes
}

// Replaces the live list wholesale; used when an archived room is restored
func (s *Store) Seed(shapes []Shape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shapes = append(make([]Shape, 0, len(shapes)), shapes...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shapes)
}

func (s *Store) HistoryDepth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}
