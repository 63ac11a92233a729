package registry

// RegistryError is a custom error type for registry errors
type RegistryError string

// Error implements the error interface
func (e RegistryError) Error() string {
	return string(e)
}

const (
	ErrRoomNotFound  RegistryError = "room not found"
	ErrClosed        RegistryError = "registry is closed"
	ErrIDExhausted   RegistryError = "could not allocate a free room id"
	ErrNilConfig     RegistryError = "config cannot be nil"
	ErrNilDiceRoller RegistryError = "dice roller cannot be nil"
	ErrNilIDGen      RegistryError = "room id generator cannot be nil"
)
