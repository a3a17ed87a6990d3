package fetch

import "errors"

// Sentinel errors for the fetch package.
var (
	// ErrNoHref is returned when there is no URL to download.
	ErrNoHref = errors.New("download link has no href attribute")

	// ErrDownloadFailed wraps every failure after the request was attempted.
	ErrDownloadFailed = errors.New("download failed")
)
