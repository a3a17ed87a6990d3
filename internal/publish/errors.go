package publish

import "errors"

var (
	ErrFileMissing    = errors.New("audio file not found")
	ErrUploadRejected = errors.New("upload rejected")
	ErrStageFailed    = errors.New("stage audio failed")
)
