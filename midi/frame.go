package midi

import (
	"errors"
	"fmt"
	"math"
)

var ErrMalformedFrame = errors.New("malformed frame")

// Note is one (key, velocity, duration) triple read from a flat frame
type Note struct {
	Key      uint8
	Velocity uint8   // 0 = note off
	Beats    float64 // how long to hold, in beats
}

// Notes reads a flattened player output as consecutive note triples
func Notes(frame []any) ([]Note, error) {
	if len(frame)%3 != 0 {
		return nil, fmt.Errorf("%w: %d values is not a whole number of notes", ErrMalformedFrame, len(frame))
	}

	notes := make([]Note, 0, len(frame)/3)
	for i := 0; i < len(frame); i += 3 {
		key, ok1 := number(frame[i])
		vel, ok2 := number(frame[i+1])
		beats, ok3 := number(frame[i+2])
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("%w: non-numeric value in %v", ErrMalformedFrame, frame[i:i+3])
		}
		notes = append(notes, Note{
			Key:      to7bit(key),
			Velocity: to7bit(vel),
			Beats:    math.Max(0, beats),
		})
	}
	return notes, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func to7bit(v float64) uint8 {
	return uint8(math.Max(0, math.Min(127, math.Round(v))))
}
