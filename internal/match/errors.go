package match

import (
	"errors"
	"fmt"
)

// Authorization and precondition failures. They are recovered locally: the
// caller reports them to the originating player and the match state is left
// untouched.
var (
	ErrUnauthorized     = errors.New("only the admin can do that")
	ErrNotEnoughPlayers = errors.New("at least 2 players are required to start")
	ErrMatchInProgress  = errors.New("a match is already in progress")
	ErrNotPlaying       = errors.New("no match in progress")
	ErrNotYourTurn      = errors.New("it is not your turn")
	ErrNotConnected     = errors.New("player is not in the room")
	ErrInvalidSettings  = errors.New("invalid settings")
)

// RejectReason tags why a submitted word was refused. The validator pipeline
// short-circuits, so a word violating several rules reports only the first.
type RejectReason string

const (
	ReasonTooShort        RejectReason = "TooShort"
	ReasonMissingFragment RejectReason = "MissingFragment"
	ReasonAlreadyUsed     RejectReason = "AlreadyUsed"
	ReasonNotAWord        RejectReason = "NotAWord"
)

// RejectionError is the validation branch of the error taxonomy. It carries
// the machine-readable reason tag next to the human-readable message sent to
// the submitter.
type RejectionError struct {
	Reason  RejectReason
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func rejection(reason RejectReason, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a word rejection, as opposed to an
// authorization or precondition failure.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}
