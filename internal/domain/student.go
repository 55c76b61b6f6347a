package domain

import (
	"strings"
	"time"
)

// Student is a registered study-partner profile.
// CourseIDs, StudySpots and StudyTimes are sets; they are non-empty for every stored profile.
type Student struct {
	StudentID     string    `json:"id" dynamodbav:"student_id"`
	Name          string    `json:"name" dynamodbav:"name"`
	Email         string    `json:"email" dynamodbav:"email"`
	College       string    `json:"college" dynamodbav:"college"`
	Department    string    `json:"department" dynamodbav:"department"`
	CourseIDs     []string  `json:"course_ids" dynamodbav:"course_ids"`
	StudySpots    []string  `json:"study_spots" dynamodbav:"study_spots"`
	StudyTimes    []string  `json:"study_times" dynamodbav:"study_times"`
	EmailVerified bool      `json:"email_verified" dynamodbav:"email_verified"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateStudentRequest struct {
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	College    string   `json:"college" validate:"required"`
	Department string   `json:"department" validate:"required"`
	CourseIDs  []string `json:"course_ids" validate:"required,min=1,dive,required"`
	StudySpots []string `json:"study_spots" validate:"required,min=1,dive,required"`
	StudyTimes []string `json:"study_times" validate:"required,min=1,dive,required"`
}

type UpdateStudentRequest struct {
	Name       *string   `json:"name" validate:"omitempty,min=1"`
	College    *string   `json:"college"`
	Department *string   `json:"department"`
	CourseIDs  *[]string `json:"course_ids" validate:"omitempty,min=1,dive,required"`
	StudySpots *[]string `json:"study_spots" validate:"omitempty,min=1,dive,required"`
	StudyTimes *[]string `json:"study_times" validate:"omitempty,min=1,dive,required"`
}

// NormalizeEmail trims and lowercases an address. Every email key in the system goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
