package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// Test engine policy.
const (
	TotalQuestionsPerTest   = 30
	TestDurationMinutes     = 45
	PassingPercentage       = 70.0
	MaxAttemptsPerSkill     = 3
	MaxProctoringViolations = 5
	AbandonGraceMinutes     = 15
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// Upload limits.
const (
	MaxProfilePictureBytes = 5 * 1024 * 1024
	MaxResumeBytes         = 10 * 1024 * 1024
)

var (
	AllowedImageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}
	AllowedResumeExts = []string{".pdf", ".docx", ".txt"}
)
