package domain

import "errors"

var (
	// ErrInvalidOrder is returned when an order lacks an identifier
	ErrInvalidOrder = errors.New("invalid order")

	// ErrMissingOrderTotal is returned when an order has no usable total to reconcile against
	ErrMissingOrderTotal = errors.New("order total missing")

	// ErrMalformedFragment is returned when fragment markup cannot be parsed
	ErrMalformedFragment = errors.New("malformed fragment markup")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
