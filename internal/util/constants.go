package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeImage = "image/"
)

// 课程默认值
const (
	DefaultCategory        = "General"
	DefaultLanguage        = "English"
	DefaultChapterMinutes  = 45
	MaxVideosPerChapter    = 3
	MaxDoubtsListed        = 20
	FallbackFeedbackLength = 200
)
