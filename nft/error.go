package nft

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is the sentinel every failed authorization check unwraps
// to; the concrete error carries the actor and the action for diagnostics.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotInitialized is returned by queries against a store that Instantiate
// has never run on.
var ErrNotInitialized = errors.New("contract not initialized")

type UnauthorizedError struct {
	Actor   Address
	Action  string
	TokenID TokenID
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s may not %s token %s", e.Actor, e.Action, e.TokenID)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// ClaimedError reports a mint collision on a live token id.
type ClaimedError struct {
	TokenID TokenID
}

func (e *ClaimedError) Error() string {
	return fmt.Sprintf("token id %s already claimed", e.TokenID)
}

// RemintBurnedError reports a mint attempt on a permanently retired id.
type RemintBurnedError struct {
	TokenID TokenID
}

func (e *RemintBurnedError) Error() string {
	return fmt.Sprintf("cannot remint a token id that has already been used: %s", e.TokenID)
}

type NoSuchTokenError struct {
	TokenID TokenID
}

func (e *NoSuchTokenError) Error() string {
	return fmt.Sprintf("the given token does not exist: %s", e.TokenID)
}

// ExpiredError reports a supplied expiration that is already past.
type ExpiredError struct{}

func (e *ExpiredError) Error() string {
	return "cannot set approval that is already expired"
}

type InvalidTokenIDError struct {
	Input   string
	Encoded []byte
}

func (e *InvalidTokenIDError) Error() string {
	if e.Encoded != nil {
		return fmt.Sprintf("invalid token id encoding of %d bytes", len(e.Encoded))
	}
	return fmt.Sprintf("invalid token id %q", e.Input)
}

type InvalidAddressError struct {
	Input string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q", e.Input)
}
