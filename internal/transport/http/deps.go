package http

import (
	"net/http"

	"github.com/studybuddy-api/internal/application/course"
	"github.com/studybuddy-api/internal/application/match"
	"github.com/studybuddy-api/internal/application/otc"
	"github.com/studybuddy-api/internal/application/student"
	jwtinfra "github.com/studybuddy-api/internal/infrastructure/jwt"
)

// Deps holds the application services the router exposes.
type Deps struct {
	Students    student.Service
	Matches     match.Service
	OTC         otc.Authority
	Courses     course.Service
	JWTProvider *jwtinfra.Provider
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}
