package player

import (
	"fmt"
	"math"
)

// Timestamp is a point on the player's timeline, in beats
type Timestamp float64

// Ceil returns the next whole beat at or after t
func (t Timestamp) Ceil() Timestamp {
	return Timestamp(math.Ceil(float64(t)))
}

// NextBeat returns the first whole beat strictly after t
func (t Timestamp) NextBeat() Timestamp {
	return Timestamp(math.Floor(float64(t))) + 1
}

func (t Timestamp) String() string {
	return fmt.Sprintf("%.3f", float64(t))
}

// Event is a scheduled unit of output
type Event struct {
	At     Timestamp
	Output []any // leaves are numbers, branches are nested slices
}

// Flatten collapses nested output into one flat slice, preserving leaf order.
func Flatten(xs []any) []any {
	out := make([]any, 0, len(xs))
	return flattenInto(out, xs)
}

func flattenInto(out []any, xs []any) []any {
	for _, x := range xs {
		switch v := x.(type) {
		case []any:
			out = flattenInto(out, v)
		case []int:
			for _, n := range v {
				out = append(out, n)
			}
		case []float64:
			for _, n := range v {
				out = append(out, n)
			}
		default:
			out = append(out, v)
		}
	}
	return out
}
