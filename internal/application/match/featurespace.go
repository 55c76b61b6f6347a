// Package match ranks study-partner candidates by weighted cosine similarity
// over shared courses, study spots and study times.
package match

import (
	"slices"

	"github.com/studybuddy-api/internal/domain"
)

// FeatureSpace is the ordered universe of every course, spot and time label
// seen across a set of students. It lives for one ranking request only.
type FeatureSpace struct {
	Courses   []string
	Locations []string
	Timeslots []string
}

// BuildFeatureSpace collects the distinct labels of all students.
// Each block is sorted so the layout does not depend on store scan order.
func BuildFeatureSpace(students []domain.Student) FeatureSpace {
	courses := map[string]struct{}{}
	spots := map[string]struct{}{}
	times := map[string]struct{}{}
	for i := range students {
		addAll(courses, students[i].CourseIDs)
		addAll(spots, students[i].StudySpots)
		addAll(times, students[i].StudyTimes)
	}
	return FeatureSpace{
		Courses:   sortedKeys(courses),
		Locations: sortedKeys(spots),
		Timeslots: sortedKeys(times),
	}
}

// Len is the length of every vector encoded against fs.
func (fs FeatureSpace) Len() int {
	return len(fs.Courses) + len(fs.Locations) + len(fs.Timeslots)
}

// Empty reports whether no course labels exist, in which case there is nothing to rank on.
func (fs FeatureSpace) Empty() bool {
	return len(fs.Courses) == 0
}

func addAll(set map[string]struct{}, labels []string) {
	for _, l := range labels {
		set[l] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
