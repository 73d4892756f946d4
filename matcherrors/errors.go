package matcherrors

import "errors"

// Lobby sentinel errors. Used by both matchmaking and ws packages to avoid
// circular imports.
var (
	ErrAlreadyQueued = errors.New("already in the lobby queue")
	ErrNameTaken     = errors.New("name already in use in this lobby")
	ErrLobbyClosed   = errors.New("lobby is shutting down")
)
