package domain

import "errors"

var (
	// ErrInvalidInput is returned for caller mistakes such as an empty image.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream wraps transport or provider-side failures.
	ErrUpstream = errors.New("upstream provider error")
	// ErrUpstreamParse indicates the provider reply did not have the expected shape.
	ErrUpstreamParse = errors.New("could not parse upstream response")
	// ErrImageGeneration is returned when the image model produced no image data.
	ErrImageGeneration = errors.New("image generation returned no image data")
	// ErrSessionNotFound is returned when a quiz session has not been started.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionClosed is returned for transitions attempted after Close.
	ErrSessionClosed = errors.New("quiz session closed")
	// ErrInvalidTransition indicates the event is not allowed in the current phase.
	ErrInvalidTransition = errors.New("invalid quiz transition")
	// ErrInvalidOption indicates a submitted answer is not one of the bin options.
	ErrInvalidOption = errors.New("option not found")
	// ErrPoolEmpty indicates a fallback pool has no entries.
	ErrPoolEmpty = errors.New("fallback pool is empty")
)
