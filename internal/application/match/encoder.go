package match

import "github.com/studybuddy-api/internal/domain"

// Vector is a 0/1 membership encoding of one student: course block, then
// location block, then timeslot block. Two vectors are only comparable when
// they were encoded against the same FeatureSpace.
type Vector struct {
	bits      []float64
	courses   int
	locations int
}

// Len returns the total number of positions.
func (v Vector) Len() int { return len(v.bits) }

// Encode maps s onto fs.
func (fs FeatureSpace) Encode(s *domain.Student) Vector {
	bits := make([]float64, 0, fs.Len())
	bits = appendMembership(bits, fs.Courses, s.CourseIDs)
	bits = appendMembership(bits, fs.Locations, s.StudySpots)
	bits = appendMembership(bits, fs.Timeslots, s.StudyTimes)
	return Vector{bits: bits, courses: len(fs.Courses), locations: len(fs.Locations)}
}

func appendMembership(dst []float64, universe, selected []string) []float64 {
	have := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		have[s] = struct{}{}
	}
	for _, label := range universe {
		if _, ok := have[label]; ok {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	return dst
}
