package game

import "sort"

// bind records that connID is seated in roomID and subscribes it to the room
func (s *service) bind(connID, roomID string) {
	s.mu.Lock()
	rooms, ok := s.members[connID]
	if !ok {
		rooms = make(map[string]struct{})
		s.members[connID] = rooms
	}
	rooms[roomID] = struct{}{}
	s.mu.Unlock()

	s.broadcaster.Join(roomID, connID)
}

// unbind is the reverse of bind
func (s *service) unbind(connID, roomID string) {
	s.mu.Lock()
	if rooms, ok := s.members[connID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(s.members, connID)
		}
	}
	s.mu.Unlock()

	s.broadcaster.Leave(roomID, connID)
}

// unbindAll forgets every room of connID and returns them in sorted order
func (s *service) unbindAll(connID string) []string {
	s.mu.Lock()
	rooms := s.members[connID]
	delete(s.members, connID)
	s.mu.Unlock()

	ids := make([]string, 0, len(rooms))
	for id := range rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		s.broadcaster.Leave(id, connID)
	}
	return ids
}
