package domain

import "time"

// OTCRecord is the one live one-time code for an email address.
// PK: email (normalized). ExpiresAt is a Unix timestamp also used as DynamoDB TTL.
type OTCRecord struct {
	Email     string    `json:"email" dynamodbav:"email"`
	Code      string    `json:"-" dynamodbav:"code"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"`
	Verified  bool      `json:"verified" dynamodbav:"verified"`
}

// LiveAt reports whether the record is still unexpired at t.
func (r *OTCRecord) LiveAt(t time.Time) bool {
	return r.ExpiresAt > t.Unix()
}
