package common

import "errors"

// Business logic errors
var (
	ErrNotFound = errors.New("resource not found")

	// Opinion errors
	ErrOpinionNotFound  = errors.New("opinion not found")
	ErrTooManyDocuments = errors.New("too many documents")

	// Employee errors
	ErrEmployeeAlreadyExists = errors.New("employee already exists")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
