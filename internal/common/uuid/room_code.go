package uuid

import "github.com/google/uuid"

// roomCodeAlphabet has 32 symbols so a random byte maps onto it without bias.
// Look-alike characters (0/O, 1/I) are left out.
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultRoomCodeLength is the length of codes produced by NewRoomCode
const DefaultRoomCodeLength = 6

// RoomCode implements the UUID interface producing short, human-typeable room codes
// from the random bytes of a v4 UUID
type RoomCode struct {
	length int
}

// NewRoomCode creates a room code generator. A non-positive length falls back
// to DefaultRoomCodeLength; lengths above 16 are capped at 16.
func NewRoomCode(length int) *RoomCode {
	if length <= 0 {
		length = DefaultRoomCodeLength
	}
	if length > 16 {
		length = 16
	}
	return &RoomCode{length: length}
}

// NewUUID returns a new room code
func (r *RoomCode) NewUUID() string {
	u := uuid.New()
	code := make([]byte, r.length)
	for i := range code {
		code[i] = roomCodeAlphabet[int(u[i])%len(roomCodeAlphabet)]
	}
	return string(code)
}
