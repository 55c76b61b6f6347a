package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	SMTPHost     string // empty disables real delivery; codes are logged instead
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	AllowedOrigins     []string // CORS allowed origins
	AllowedEmailSuffix string
	// TrustProxyHeaders takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool

	OTCTTL            time.Duration
	DispatchWorkers   int
	DispatchQueueSize int

	Weights    MatchWeights
	CatalogURL string

	Options StudyOptions
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Students string
	OTCs     string
	Courses  string
}

// MatchWeights are the per-category multipliers applied before cosine similarity.
type MatchWeights struct {
	Course   float64
	Location float64
	Time     float64
}

// DefaultMatchWeights returns the weights used when none are configured.
// Courses dominate; shared time slots matter somewhat more than shared locations.
func DefaultMatchWeights() MatchWeights {
	return MatchWeights{Course: 3.0, Location: 1.0, Time: 1.5}
}

// Load reads all configuration from environment variables.
func Load() *Config {
	def := DefaultMatchWeights()
	return &Config{
		AppPort:        getEnv("APP_PORT", "5001"),
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Students: getEnv("DYNAMO_TABLE_STUDENTS", "students"),
			OTCs:     getEnv("DYNAMO_TABLE_OTC", "otcs"),
			Courses:  getEnv("DYNAMO_TABLE_COURSES", "courses"),
		},
		S3BucketName:       getEnv("S3_BUCKET_NAME", "studybuddy-catalog"),
		JWTPrivateKeyPath:  getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:   getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:          time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnv("SMTP_PORT", "587"),
		SMTPFrom:           getEnv("SMTP_FROM", "noreply@studybuddy.local"),
		SMTPUsername:       getEnv("SMTP_USERNAME", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		AllowedOrigins:     strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		AllowedEmailSuffix: strings.ToLower(getEnv("ALLOWED_EMAIL_SUFFIX", ".nthu.edu.tw")),
		TrustProxyHeaders:  getEnvBool("TRUST_PROXY_HEADERS", false),
		OTCTTL:             time.Duration(getEnvInt("OTC_TTL_MINUTES", 10)) * time.Minute,
		DispatchWorkers:    getEnvInt("DISPATCH_WORKERS", 4),
		DispatchQueueSize:  getEnvInt("DISPATCH_QUEUE_SIZE", 64),
		Weights: MatchWeights{
			Course:   getEnvFloat("MATCH_COURSE_WEIGHT", def.Course),
			Location: getEnvFloat("MATCH_LOCATION_WEIGHT", def.Location),
			Time:     getEnvFloat("MATCH_TIME_WEIGHT", def.Time),
		},
		CatalogURL: getEnv("CATALOG_URL", "https://www.ccxp.nthu.edu.tw/ccxp/INQUIRE/JH/OPENDATA/open_course_data.json"),
		Options:    DefaultStudyOptions(),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
