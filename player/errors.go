package player

import "errors"

var (
	// ErrNoEvents is returned by CheckIn when the gesture produced nothing to emit
	ErrNoEvents = errors.New("no events after gesture generation")

	// ErrUnsupportedCapability is returned when a parameter targets a generator
	// slot the player's variant does not have
	ErrUnsupportedCapability = errors.New("unsupported generator capability")

	ErrNoGesture          = errors.New("variant has no gesture")
	ErrNoGeneratorFactory = errors.New("variant has generator slots but no generator factory")
)
