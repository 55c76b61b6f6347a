package match

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/studybuddy-api/internal/domain"
)

// TopK is the maximum number of matches returned per request.
const TopK = 3

// Outcome labels passed to Recorder.
const (
	OutcomeOK           = "ok"
	OutcomeNotFound     = "not_found"
	OutcomeNoData       = "no_data"
	OutcomeNoCandidates = "no_candidates"
	OutcomeError        = "error"
)

type Service interface {
	GetMatches(ctx context.Context, targetID string) (*domain.MatchList, error)
}

type profileStore interface {
	Get(ctx context.Context, studentID string) (*domain.Student, error)
	ListAll(ctx context.Context) ([]domain.Student, error)
	ListOthers(ctx context.Context, excludeID string) ([]domain.Student, error)
}

// Recorder observes ranking runs. A nil Recorder is allowed.
type Recorder interface {
	ObserveMatch(outcome string, candidates int, elapsed time.Duration)
}

type service struct {
	repo     profileStore
	scorer   *Scorer
	recorder Recorder
}

type ServiceDeps struct {
	StudentRepo profileStore
	Weights     Weights
	Recorder    Recorder
}

// NewService fails with domain.ErrInvalidWeight when any weight is negative.
func NewService(deps ServiceDeps) (Service, error) {
	scorer, err := NewScorer(deps.Weights)
	if err != nil {
		return nil, err
	}
	return &service{repo: deps.StudentRepo, scorer: scorer, recorder: deps.Recorder}, nil
}

// GetMatches ranks every other student against targetID and returns the best TopK.
// It only reads from the store and is safe to call concurrently.
func (s *service) GetMatches(ctx context.Context, targetID string) (*domain.MatchList, error) {
	start := time.Now()
	list, err := s.rank(ctx, targetID)
	s.observe(start, list, err)
	return list, err
}

func (s *service) rank(ctx context.Context, targetID string) (*domain.MatchList, error) {
	target, err := s.repo.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	fs := BuildFeatureSpace(all)
	if fs.Empty() {
		return nil, fmt.Errorf("no course data available: %w", domain.ErrNoData)
	}
	others, err := s.repo.ListOthers(ctx, target.StudentID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	if len(others) == 0 {
		return &domain.MatchList{TargetName: target.Name, Matches: []domain.MatchResult{}, NoCandidates: true}, nil
	}

	tv := fs.Encode(target)
	results := make([]domain.MatchResult, 0, len(others))
	for i := range others {
		c := &others[i]
		results = append(results, domain.MatchResult{
			StudentID:     c.StudentID,
			Name:          c.Name,
			Email:         c.Email,
			Department:    c.Department,
			Similarity:    s.scorer.Score(tv, fs.Encode(c)),
			SharedCourses: intersect(target.CourseIDs, c.CourseIDs),
			SharedSpots:   intersect(target.StudySpots, c.StudySpots),
			SharedTimes:   intersect(target.StudyTimes, c.StudyTimes),
		})
	}
	slices.SortStableFunc(results, func(a, b domain.MatchResult) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	return &domain.MatchList{
		TargetName:   target.Name,
		Matches:      results[:min(TopK, len(results))],
		TotalChecked: len(others),
	}, nil
}

func (s *service) observe(start time.Time, list *domain.MatchList, err error) {
	if s.recorder == nil {
		return
	}
	outcome := OutcomeOK
	switch {
	case errors.Is(err, domain.ErrNotFound):
		outcome = OutcomeNotFound
	case errors.Is(err, domain.ErrNoData):
		outcome = OutcomeNoData
	case err != nil:
		outcome = OutcomeError
	case list.NoCandidates:
		outcome = OutcomeNoCandidates
	}
	checked := 0
	if list != nil {
		checked = list.TotalChecked
	}
	s.recorder.ObserveMatch(outcome, checked, time.Since(start))
}

// intersect returns the labels of a that also appear in b, in a's order, without duplicates.
func intersect(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, x := range b {
		inB[x] = struct{}{}
	}
	out := []string{}
	seen := make(map[string]struct{}, len(a))
	for _, x := range a {
		if _, ok := inB[x]; !ok {
			continue
		}
		if _, dup := seen[x]; dup {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}
