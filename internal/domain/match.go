package domain

// MatchResult is one ranked candidate for a target student.
// Similarity is the raw weighted cosine score in [0, 1].
type MatchResult struct {
	StudentID     string   `json:"student_id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Department    string   `json:"department"`
	Similarity    float64  `json:"similarity"`
	SharedCourses []string `json:"shared_courses"`
	SharedSpots   []string `json:"shared_spots"`
	SharedTimes   []string `json:"shared_times"`
}

// MatchList is the outcome of one ranking request.
type MatchList struct {
	TargetName   string
	Matches      []MatchResult
	TotalChecked int
	// NoCandidates is set when the target is the only student.
	NoCandidates bool
}
