package app

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")

	ErrClassificationNotFound = errors.New("classification not found")
	ErrVehicleNotFound        = errors.New("vehicle not found")

	ErrInquiryNotFound  = errors.New("inquiry not found")
	ErrInquiryForbidden = errors.New("inquiry belongs to another account")
	// ErrInquiryClosed indicates a response was rejected because the inquiry
	// is Closed and the resolve-closed policy is off.
	ErrInquiryClosed  = errors.New("inquiry is closed")
	ErrInvalidStatus  = errors.New("unrecognized inquiry status")
	ErrPhotoNotStored = errors.New("photo storage not configured")
)
