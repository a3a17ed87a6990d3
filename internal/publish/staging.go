package publish

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// illegalChars are characters not allowed in filenames on common filesystems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

var (
	multiSpace = regexp.MustCompile(`\s+`)
	multiDot   = regexp.MustCompile(`\.{2,}`)
)

// maxNameRunes keeps staged names well under common filename limits.
const maxNameRunes = 120

// uploadName turns an episode title into the filename the console shows
// for the upload. Empty or fully-stripped titles fall back to "episode".
func uploadName(title, ext string) string {
	name := strings.ReplaceAll(title, "/", " ")
	name = strings.ReplaceAll(name, "\\", " ")
	name = illegalChars.ReplaceAllString(name, " ")
	name = multiDot.ReplaceAllString(name, ".")
	name = multiSpace.ReplaceAllString(name, " ")
	name = strings.Trim(name, " .")

	if r := []rune(name); len(r) > maxNameRunes {
		name = strings.TrimRight(string(r[:maxNameRunes]), " .")
	}
	if name == "" {
		name = "episode"
	}
	return name + ext
}

// stageAudio copies src into dir under the episode's upload name.
// The partial copy is removed on error.
func stageAudio(src, dir, title string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFileMissing, src)
		}
		return "", fmt.Errorf("%w: open source: %v", ErrStageFailed, err)
	}
	defer func() { _ = in.Close() }()

	dst := filepath.Join(dir, uploadName(title, filepath.Ext(src)))
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("%w: create destination: %v", ErrStageFailed, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("%w: copy content: %v", ErrStageFailed, err)
	}
	if err := out.Sync(); err != nil {
		return "", fmt.Errorf("%w: sync: %v", ErrStageFailed, err)
	}
	return dst, nil
}
