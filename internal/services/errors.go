package services

import "errors"

// Domain errors. Handlers map these to HTTP statuses; anything else surfaces
// as a generic internal error.
var (
	ErrNotFound = errors.New("not found")

	// ErrNotFoundOrForbidden deliberately merges "does not exist" and "not
	// yours" so that non-owners cannot probe which polls exist.
	ErrNotFoundOrForbidden = errors.New("poll not found or access denied")

	ErrNotJoinable             = errors.New("poll is not open for joining")
	ErrNotAcceptingSubmissions = errors.New("poll is not accepting submissions")
	ErrInvalidSecurityCode     = errors.New("invalid security code")
	ErrInvalidQuestion         = errors.New("question does not belong to this poll")
	ErrInvalidOption           = errors.New("invalid option for this question")
	ErrQuestionsLocked         = errors.New("poll has submissions, questions can no longer be changed")
	ErrAlreadyExists           = errors.New("already exists")
	ErrUnauthenticated         = errors.New("invalid or expired token")
	ErrInvalidStatus           = errors.New("invalid poll status")

	// ErrBadInput wraps request-shape problems caught inside a service.
	ErrBadInput = errors.New("invalid input")
)
