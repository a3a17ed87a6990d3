package notebook

import (
	"strings"

	"github.com/vmunix/nbpod/internal/locale"
)

// Kind is the source category a URL is added as.
type Kind int

const (
	KindWebsite Kind = iota
	KindVideo
)

func (k Kind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "website"
}

// label is the source-type chip that selects k.
func (k Kind) label() locale.Key {
	if k == KindVideo {
		return locale.YouTube
	}
	return locale.Website
}

var videoHosts = []string{"youtube.com", "youtu.be"}

// Classify returns KindVideo for URLs on a known video host.
func Classify(url string) Kind {
	for _, h := range videoHosts {
		if strings.Contains(url, h) {
			return KindVideo
		}
	}
	return KindWebsite
}

// Action is the button that opens the add-source dialog.
type Action int

const (
	// ActionCreate starts a new notebook. Only the first source uses it.
	ActionCreate Action = iota
	// ActionAddSource adds to the notebook the first source created.
	ActionAddSource
)

func (a Action) String() string {
	if a == ActionCreate {
		return "create"
	}
	return "add-source"
}

func (a Action) label() locale.Key {
	if a == ActionCreate {
		return locale.CreateNotebook
	}
	return locale.AddSource
}

// ActionFor returns the action for the source at index.
func ActionFor(index int) Action {
	if index == 0 {
		return ActionCreate
	}
	return ActionAddSource
}

// Source is one URL work item.
type Source struct {
	Index  int
	URL    string
	Kind   Kind
	Action Action
}

// NewSource classifies url at position index.
func NewSource(index int, url string) Source {
	return Source{Index: index, URL: url, Kind: Classify(url), Action: ActionFor(index)}
}
