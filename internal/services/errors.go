package services

import "errors"

var (
	// ErrValidation marks malformed or missing request fields.
	ErrValidation = errors.New("validation failed")

	// ErrEmailTaken is returned on registration with an already used email.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The caller never learns which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidStatus marks a post status outside Draft/Published/Archived.
	ErrInvalidStatus = errors.New("invalid post status")

	// ErrNotFoundOrForbidden merges "post does not exist", "post is not
	// owned by the caller", and "post is in the wrong state for this
	// transition" into one error so that callers cannot probe for the
	// existence of other users' posts.
	ErrNotFoundOrForbidden = errors.New("post not found")
)
