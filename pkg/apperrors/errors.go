package apperrors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrNoDemand            = errors.New("no demand within horizon")
	ErrNoQualifiedSupplier = errors.New("no qualified supplier")
	ErrMissingAnchor       = errors.New("provide at least one of orderId, supplierId, partId")
	ErrUnknownAction       = errors.New("unknown action")
	ErrInvalidRequest      = errors.New("invalid request")
)
