package urls

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Priority(t *testing.T) {
	file := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(file, []byte("https://file.example\n"), 0644))
	stdin := strings.NewReader("https://stdin.example\n")

	got, err := Resolve(Input{Flag: "https://flag.example", File: file, Stdin: stdin})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://flag.example"}, got)

	got, err = Resolve(Input{File: file, Stdin: stdin})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://file.example"}, got)

	got, err = Resolve(Input{Stdin: stdin})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://stdin.example"}, got)
}

func TestResolve_FlagTrimsAndDropsBlanks(t *testing.T) {
	got, err := Resolve(Input{Flag: " https://a.com , ,https://youtu.be/x ,"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com", "https://youtu.be/x"}, got)
}

func TestResolve_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(file, []byte("\n  https://a.com  \n\nhttps://b.com\n"), 0644))

	got, err := Resolve(Input{File: file})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, got)
}

func TestResolve_MissingFile(t *testing.T) {
	_, err := Resolve(Input{File: filepath.Join(t.TempDir(), "nope.txt")})
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestResolve_Empty(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"nothing", Input{}},
		{"blank flag and stdin", Input{Flag: " , ", Stdin: strings.NewReader("\n \n")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.in)
			assert.ErrorIs(t, err, ErrNoURLs)
		})
	}
}

func TestReadLines_Prompt(t *testing.T) {
	var prompt bytes.Buffer
	got, err := ReadLines(strings.NewReader("https://a.com\n\nhttps://b.com\n"), &prompt)
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Contains(t, prompt.String(), "Added URL #2: https://b.com")
}

func TestReaderRewrite_Idempotent(t *testing.T) {
	once := ReaderRewrite(DefaultReaderBase, "https://example.com")
	twice := ReaderRewrite(DefaultReaderBase, once)

	assert.Equal(t, "https://r.jina.ai/https://example.com", once)
	assert.Equal(t, once, twice)
}

func TestApplyReader(t *testing.T) {
	in := []string{"https://a.com", "https://r.jina.ai/https://b.com"}
	got := ApplyReader("", in)

	assert.Equal(t, []string{"https://r.jina.ai/https://a.com", "https://r.jina.ai/https://b.com"}, got)
	assert.Equal(t, "https://a.com", in[0], "input is not modified")
}
