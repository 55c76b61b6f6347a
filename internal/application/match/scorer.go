package match

import (
	"fmt"
	"math"

	"github.com/studybuddy-api/internal/domain"
)

// Weights scale each block of a Vector before the cosine is taken.
type Weights struct {
	Course   float64
	Location float64
	Time     float64
}

// DefaultWeights favours courses, then times, then locations.
func DefaultWeights() Weights {
	return Weights{Course: 3.0, Location: 1.0, Time: 1.5}
}

// Scorer computes category-weighted cosine similarity.
type Scorer struct {
	w Weights
}

// NewScorer rejects negative weights.
func NewScorer(w Weights) (*Scorer, error) {
	checks := []struct {
		name string
		val  float64
	}{{"course", w.Course}, {"location", w.Location}, {"time", w.Time}}
	for _, c := range checks {
		if c.val < 0 || math.IsNaN(c.val) {
			return nil, fmt.Errorf("%s weight %v: %w", c.name, c.val, domain.ErrInvalidWeight)
		}
	}
	return &Scorer{w: w}, nil
}

// Score returns the weighted cosine similarity of a and b in [0, 1].
// Vectors with differing layouts, or with a zero weighted norm, score 0.
func (s *Scorer) Score(a, b Vector) float64 {
	if a.Len() != b.Len() || a.courses != b.courses || a.locations != b.locations {
		return 0
	}
	var dot, normA, normB float64
	for i := range a.bits {
		w := s.weightAt(i, a.courses, a.locations)
		x, y := a.bits[i]*w, b.bits[i]*w
		dot += x * y
		normA += x * x
		normB += y * y
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return math.Min(dot/denom, 1)
}

func (s *Scorer) weightAt(i, courses, locations int) float64 {
	switch {
	case i < courses:
		return s.w.Course
	case i < courses+locations:
		return s.w.Location
	default:
		return s.w.Time
	}
}
