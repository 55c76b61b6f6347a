package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/studybuddy-api/internal/application/course"
	"github.com/studybuddy-api/internal/application/student"
	"github.com/studybuddy-api/internal/config"
	"github.com/studybuddy-api/internal/domain"
	"github.com/studybuddy-api/internal/infrastructure/jwt/jwttest"
	"github.com/studybuddy-api/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStudents struct {
	student.Service
}

func (stubStudents) Get(_ context.Context, id string) (*domain.Student, error) {
	return &domain.Student{StudentID: id, Name: "Amy"}, nil
}

type emptyCourses struct{}

func (emptyCourses) Search(context.Context, string, int) ([]domain.Course, error) {
	return []domain.Course{}, nil
}

func (emptyCourses) GetByCodes(context.Context, []string) (map[string]domain.Course, error) {
	return map[string]domain.Course{}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *Deps) {
	return newTestRouterWith(t, func(*config.Config) {})
}

func newTestRouterWith(t *testing.T, tweak func(*config.Config)) (http.Handler, *Deps) {
	t.Helper()
	cfg := &config.Config{
		AllowedOrigins:     []string{"http://localhost:3000"},
		AllowedEmailSuffix: ".nthu.edu.tw",
		Options:            config.DefaultStudyOptions(),
	}
	tweak(cfg)
	reg := prometheus.NewRegistry()
	metrics.NewCollector(reg)
	deps := &Deps{
		Students:    stubStudents{},
		Courses:     course.NewService(emptyCourses{}),
		JWTProvider: jwttest.NewProvider(t),
		Metrics:     metrics.Handler(reg),
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewRouter(ctx, cfg, deps), deps
}

func TestRouter_PublicRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/v1/health-check/ping", "/v1/options", "/v1/courses/search?q=cs", "/metrics"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestRouter_MetricsExposesCollectors(t *testing.T) {
	r, _ := newTestRouter(t)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), "studybuddy_otc_issued_total")
}

func TestRouter_AuthenticatedRoutesNeedBearer(t *testing.T) {
	r, deps := newTestRouter(t)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := deps.JWTProvider.Sign("01J9ZK3V5R6Q7W8X9Y0Z1A2B3C", "amy@m111.nthu.edu.tw")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "01J9ZK3V5R6Q7W8X9Y0Z1A2B3C")
}

func sendCode(r http.Handler, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/v1/otc/send", strings.NewReader(`{"email":"amy@gmail.com"}`))
	req.RemoteAddr = "203.0.113.9:40000"
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr.Code
}

func TestRouter_OTCIsRateLimited(t *testing.T) {
	r, _ := newTestRouter(t)

	limited := false
	for i := 0; i < 20 && !limited; i++ {
		limited = sendCode(r, fmt.Sprintf("198.51.100.%d", i)) == http.StatusTooManyRequests
	}
	assert.True(t, limited, "spoofed forwarding headers must not reset the limit")
}

func TestRouter_TrustedProxyLimitsPerForwardedClient(t *testing.T) {
	r, _ := newTestRouterWith(t, func(cfg *config.Config) { cfg.TrustProxyHeaders = true })

	for i := 0; i < 20; i++ {
		assert.NotEqual(t, http.StatusTooManyRequests, sendCode(r, fmt.Sprintf("198.51.100.%d", i)))
	}
}
