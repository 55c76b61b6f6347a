package course

import (
	"context"
	"errors"
	"testing"

	"github.com/studybuddy-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCourseStore struct{ mock.Mock }

func (m *mockCourseStore) Search(ctx context.Context, query string, limit int) ([]domain.Course, error) {
	args := m.Called(ctx, query, limit)
	c, _ := args.Get(0).([]domain.Course)
	return c, args.Error(1)
}

func (m *mockCourseStore) GetByCodes(ctx context.Context, codes []string) (map[string]domain.Course, error) {
	args := m.Called(ctx, codes)
	c, _ := args.Get(0).(map[string]domain.Course)
	return c, args.Error(1)
}

func TestSearch_ShortQuery(t *testing.T) {
	repo := &mockCourseStore{}
	svc := NewService(repo)

	for _, q := range []string{"", " ", "a", " 微 "} {
		got, err := svc.Search(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got, q)
	}
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_TwoRuneChineseQueryHitsStore(t *testing.T) {
	repo := &mockCourseStore{}
	repo.On("Search", mock.Anything, "微積", MaxResults).Return([]domain.Course{
		{Code: "MATH102", NameZH: "微積分二"},
		{Code: "MATH101", NameZH: "微積分一"},
	}, nil)

	got, err := NewService(repo).Search(context.Background(), " 微積 ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "MATH101", got[0].Code)
	assert.Equal(t, "MATH101 - 微積分一", got[0].Display())
}

func TestSearch_StoreError(t *testing.T) {
	repo := &mockCourseStore{}
	repo.On("Search", mock.Anything, "calc", MaxResults).Return(nil, errors.New("throttled"))

	_, err := NewService(repo).Search(context.Background(), "calc")
	assert.ErrorContains(t, err, "throttled")
}

func TestNames(t *testing.T) {
	repo := &mockCourseStore{}
	codes := []string{"CS101", "MA201", "XX999", "EMPTY"}
	repo.On("GetByCodes", mock.Anything, codes).Return(map[string]domain.Course{
		"CS101": {Code: "CS101", NameEN: "Intro to CS", NameZH: "計算機概論"},
		"MA201": {Code: "MA201", NameZH: "線性代數"},
		"EMPTY": {Code: "EMPTY"},
	}, nil)

	got, err := NewService(repo).Names(context.Background(), codes)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"CS101": "Intro to CS",
		"MA201": "線性代數",
		"EMPTY": "EMPTY",
	}, got)
}

func TestNames_Empty(t *testing.T) {
	repo := &mockCourseStore{}
	got, err := NewService(repo).Names(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertNotCalled(t, "GetByCodes", mock.Anything, mock.Anything)
}
