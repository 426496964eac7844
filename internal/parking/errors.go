package parking

import "errors"

var (
	ErrValidation          = errors.New("invalid request")
	ErrNotFound            = errors.New("not found")
	ErrAreaFull            = errors.New("parking area is full")
	ErrAlreadyClosed       = errors.New("parking session already closed")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrTariffMissing       = errors.New("no tariff configured for vehicle category")
	ErrAlreadyParked       = errors.New("vehicle already has an open parking session")

	// ErrLedgerUnderflow means a release had no matching admission.
	ErrLedgerUnderflow = errors.New("area release without matching admission")
	// ErrLedgerInvariant means an area was observed outside 0 <= occupied <= capacity.
	ErrLedgerInvariant = errors.New("area occupancy out of range")
)
