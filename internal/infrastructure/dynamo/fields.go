package dynamo

// DynamoDB attribute names used in key, condition and update expressions.
const (
	fieldStudentID     = "student_id"
	fieldEmail         = "email"
	fieldCode          = "code"
	fieldVerified      = "verified"
	fieldExpiresAt     = "expires_at"
	fieldCourseCode    = "course_code"
	fieldSearchText    = "search_text"
	fieldUpdatedAt     = "updated_at"

	indexEmail = "email-index"

	// emailGuardPrefix keys the item that reserves an address in the students table.
	emailGuardPrefix = "email#"
)
