package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "youtube", NormalizeLabel("  ＹｏｕＴｕｂｅ "))
	assert.Equal(t, "add source", NormalizeLabel("Add\n  Source"))
}

func TestMatchLabel_Exact(t *testing.T) {
	m := MatchLabel("Website", []string{"Google Drive", "Website", "YouTube"})
	assert.True(t, m.Found())
	assert.Equal(t, 1, m.Index)
	assert.Equal(t, 1.0, m.Score)
}

func TestMatchLabel_FullWidth(t *testing.T) {
	m := MatchLabel("YouTube", []string{"ウェブサイト", "ＹｏｕＴｕｂｅ"})
	assert.Equal(t, 1, m.Index)
}

func TestMatchLabel_Fuzzy(t *testing.T) {
	m := MatchLabel("Website", []string{"Copied text", "Websites"})
	assert.True(t, m.Found())
	assert.Equal(t, "Websites", m.Label)
	assert.GreaterOrEqual(t, m.Score, MinLabelSimilarity)
}

func TestMatchLabel_NoMatch(t *testing.T) {
	m := MatchLabel("YouTube", []string{"Google Docs", "Paste text"})
	assert.False(t, m.Found())
	assert.Equal(t, -1, m.Index)

	assert.False(t, MatchLabel("", []string{"x"}).Found())
	assert.False(t, MatchLabel("Website", nil).Found())
}
