package course

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/studybuddy-api/internal/domain"
)

// Search limits.
const (
	MinQueryRunes = 2
	MaxResults    = 50
)

type Service interface {
	// Search matches q against course code, English name and Chinese name, case-insensitively.
	Search(ctx context.Context, q string) ([]domain.Course, error)
	// Names maps each known code to its display name. Unknown codes are omitted.
	Names(ctx context.Context, codes []string) (map[string]string, error)
}

type courseStore interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Course, error)
	GetByCodes(ctx context.Context, codes []string) (map[string]domain.Course, error)
}

type service struct {
	repo courseStore
}

func NewService(repo courseStore) Service {
	return &service{repo: repo}
}

func (s *service) Search(ctx context.Context, q string) ([]domain.Course, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinQueryRunes {
		return []domain.Course{}, nil
	}
	courses, err := s.repo.Search(ctx, q, MaxResults)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(courses, func(a, b domain.Course) int { return cmp.Compare(a.Code, b.Code) })
	return courses, nil
}

func (s *service) Names(ctx context.Context, codes []string) (map[string]string, error) {
	if len(codes) == 0 {
		return map[string]string{}, nil
	}
	found, err := s.repo.GetByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(found))
	for code, c := range found {
		names[code] = c.DisplayName()
	}
	return names, nil
}
