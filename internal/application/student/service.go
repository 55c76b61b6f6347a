package student

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/studybuddy-api/internal/config"
	"github.com/studybuddy-api/internal/domain"
	"github.com/studybuddy-api/internal/pkg/id"
	"github.com/studybuddy-api/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName       = "name"
	fieldCollege    = "college"
	fieldDepartment = "department"
	fieldCourseIDs  = "course_ids"
	fieldStudySpots = "study_spots"
	fieldStudyTimes = "study_times"
)

type Service interface {
	Register(ctx context.Context, req domain.CreateStudentRequest) (*domain.Student, error)
	// Login exchanges a verified one-time code for a bearer token.
	Login(ctx context.Context, email string) (*domain.Student, string, error)
	List(ctx context.Context) ([]domain.Student, error)
	Get(ctx context.Context, studentID string) (*domain.Student, error)
	Update(ctx context.Context, callerID, studentID string, req domain.UpdateStudentRequest) (*domain.Student, error)
}

type studentStore interface {
	Put(ctx context.Context, s *domain.Student) error
	Get(ctx context.Context, studentID string) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	ListAll(ctx context.Context) ([]domain.Student, error)
	Update(ctx context.Context, studentID string, updates map[string]any) (*domain.Student, error)
}

// verifier is the part of the otc.Authority the workflows depend on.
type verifier interface {
	ConsumeIfVerified(ctx context.Context, email string) (bool, error)
	Discard(ctx context.Context, email string) error
}

type jwtSigner interface {
	Sign(studentID, email string) (string, error)
}

type service struct {
	repo        studentStore
	otc         verifier
	jwtProvider jwtSigner
	options     config.StudyOptions
	emailSuffix string
}

type ServiceDeps struct {
	StudentRepo studentStore
	OTC         verifier
	JWTProvider jwtSigner
	Options     config.StudyOptions
	EmailSuffix string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:        deps.StudentRepo,
		otc:         deps.OTC,
		jwtProvider: deps.JWTProvider,
		options:     deps.Options,
		emailSuffix: strings.ToLower(deps.EmailSuffix),
	}
}

// AllowedEmail reports whether email (already normalized) carries the institution suffix.
// An empty suffix allows every address.
func AllowedEmail(email, suffix string) bool {
	return email != "" && strings.HasSuffix(email, suffix)
}

func (s *service) suffixError() error {
	return fmt.Errorf("please use a valid institution email address ending with %s: %w", s.emailSuffix, domain.ErrBadRequest)
}

func (s *service) Register(ctx context.Context, req domain.CreateStudentRequest) (*domain.Student, error) {
	req.Email = domain.NormalizeEmail(req.Email)
	if !AllowedEmail(req.Email, s.emailSuffix) {
		return nil, s.suffixError()
	}
	verified, err := s.otc.ConsumeIfVerified(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, fmt.Errorf("email not verified, please verify your email first: %w", domain.ErrBadRequest)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err := s.checkAffiliation(req.College, req.Department); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	st := &domain.Student{
		StudentID:     id.New(),
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
		College:       req.College,
		Department:    req.Department,
		CourseIDs:     uniq(req.CourseIDs),
		StudySpots:    uniq(req.StudySpots),
		StudyTimes:    uniq(req.StudyTimes),
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, st); err != nil {
		return nil, err
	}
	s.discard(ctx, req.Email)
	return st, nil
}

func (s *service) Login(ctx context.Context, email string) (*domain.Student, string, error) {
	email = domain.NormalizeEmail(email)
	if !AllowedEmail(email, s.emailSuffix) {
		return nil, "", fmt.Errorf("please use a valid institution email address ending with %s: %w", s.emailSuffix, domain.ErrUnauthorized)
	}
	st, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("no account found with this email, please register first: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, "", err
	}
	verified, err := s.otc.ConsumeIfVerified(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if !verified {
		return nil, "", domain.ErrInvalidCredential
	}
	bearer, err := s.jwtProvider.Sign(st.StudentID, st.Email)
	if err != nil {
		return nil, "", err
	}
	s.discard(ctx, email)
	return st, bearer, nil
}

// discard removes a consumed code. Failure only delays cleanup until the TTL sweep.
func (s *service) discard(ctx context.Context, email string) {
	if err := s.otc.Discard(ctx, email); err != nil {
		slog.Warn("could not delete consumed one-time code", "email", email, "err", err)
	}
}

func (s *service) List(ctx context.Context) ([]domain.Student, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) Get(ctx context.Context, studentID string) (*domain.Student, error) {
	if !id.Valid(studentID) {
		return nil, fmt.Errorf("student not found: %w", domain.ErrNotFound)
	}
	return s.repo.Get(ctx, studentID)
}

// Update changes the caller's own profile. Lists replace the stored sets and must stay non-empty.
func (s *service) Update(ctx context.Context, callerID, studentID string, req domain.UpdateStudentRequest) (*domain.Student, error) {
	if callerID != studentID {
		return nil, fmt.Errorf("cannot update another student: %w", domain.ErrForbidden)
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be empty: %w", domain.ErrBadRequest)
		}
		updates[fieldName] = name
	}
	college, department := current.College, current.Department
	if req.College != nil {
		college = *req.College
		updates[fieldCollege] = college
	}
	if req.Department != nil {
		department = *req.Department
		updates[fieldDepartment] = department
	}
	if req.College != nil || req.Department != nil {
		if err := s.checkAffiliation(college, department); err != nil {
			return nil, err
		}
	}
	if req.CourseIDs != nil {
		updates[fieldCourseIDs] = uniq(*req.CourseIDs)
	}
	if req.StudySpots != nil {
		updates[fieldStudySpots] = uniq(*req.StudySpots)
	}
	if req.StudyTimes != nil {
		updates[fieldStudyTimes] = uniq(*req.StudyTimes)
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	return s.repo.Update(ctx, studentID, updates)
}

func (s *service) checkAffiliation(college, department string) error {
	if _, ok := s.options.CollegeDepartments[college]; !ok {
		return fmt.Errorf("invalid college selected: %w", domain.ErrBadRequest)
	}
	if !s.options.ValidDepartment(college, department) {
		return fmt.Errorf("invalid department for selected college: %w", domain.ErrBadRequest)
	}
	return nil
}

// uniq drops blanks and repeats, keeping first occurrences in order.
func uniq(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
