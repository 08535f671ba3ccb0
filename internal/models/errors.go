package models

import "errors"

var ErrNotFound = errors.New("requested resource not found")
var ErrForbidden = errors.New("user does not have permission to access this resource")
var ErrConflict = errors.New("resource conflict, item already exists")
var ErrInvalidToken = errors.New("token not found or expired")
var ErrInvalidCredentials = errors.New("invalid credentials") // email or password provided does not match database record
var ErrEmailTaken = errors.New("user with this email already exists")

// ErrInvalidTransition indicates a status change that the status machine does not
// allow from the entity's current state.
var ErrInvalidTransition = errors.New("status transition not allowed")

// ErrValidation covers malformed input such as an unrecognized status literal.
var ErrValidation = errors.New("invalid request data")

// ErrUpstream indicates the datastore or another remote collaborator failed or
// timed out during or after a write. Earlier writes in a cascade are not rolled
// back when this is returned.
var ErrUpstream = errors.New("upstream dependency failed")

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}
