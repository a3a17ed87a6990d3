package locale

import "fmt"

// Key names a UI label looked up per locale.
type Key int

const (
	// Notebook tool
	CreateNotebook Key = iota
	AddSource
	Website
	YouTube
	Insert
	Generate
	LoadAudio
	PlayAudio
	AudioOptions
	Download

	// Publishing console
	SelectFile
	Next
	PublishEpisode

	numKeys
)

var keyNames = [numKeys]string{
	CreateNotebook: "create-notebook",
	AddSource:      "add-source",
	Website:        "website",
	YouTube:        "youtube",
	Insert:         "insert",
	Generate:       "generate",
	LoadAudio:      "load-audio",
	PlayAudio:      "play-audio",
	AudioOptions:   "audio-options",
	Download:       "download",
	SelectFile:     "select-file",
	Next:           "next",
	PublishEpisode: "publish-episode",
}

func (k Key) String() string {
	if k >= 0 && k < numKeys {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// labels is indexed [Locale][Key]. Every cell must be non-empty; init
// refuses to start otherwise.
var labels = [numLocales][numKeys]string{
	English: {
		CreateNotebook: "Create new notebook",
		AddSource:      "Add source",
		Website:        "Website",
		YouTube:        "YouTube",
		Insert:         "Insert",
		Generate:       "Generate",
		LoadAudio:      "Load",
		PlayAudio:      "Play audio",
		AudioOptions:   "View more options for the audio player",
		Download:       "Download",
		SelectFile:     "Select file",
		Next:           "Next",
		PublishEpisode: "Publish",
	},
	Japanese: {
		CreateNotebook: "新規作成",
		AddSource:      "ソースを追加",
		Website:        "ウェブサイト",
		YouTube:        "YouTube",
		Insert:         "挿入",
		Generate:       "生成",
		LoadAudio:      "読み込み",
		PlayAudio:      "音声を再生",
		AudioOptions:   "オーディオ プレーヤーに関するその他のオプションを表示",
		Download:       "ダウンロード",
		SelectFile:     "ファイルを選択",
		Next:           "次へ",
		PublishEpisode: "公開する",
	},
}

func init() {
	if err := validate(labels); err != nil {
		panic(err)
	}
}

func validate(t [numLocales][numKeys]string) error {
	for l := Locale(0); l < numLocales; l++ {
		for k := Key(0); k < numKeys; k++ {
			if t[l][k] == "" {
				return fmt.Errorf("locale: missing %s label for %s", k, l)
			}
		}
	}
	return nil
}

// Text returns the label for key in locale l. Unknown locales use English.
func Text(l Locale, k Key) string {
	if l < 0 || l >= numLocales {
		l = English
	}
	if k < 0 || k >= numKeys {
		return ""
	}
	return labels[l][k]
}

// Table is the label set of a single locale.
type Table struct {
	Locale Locale
}

// For returns the label table of l.
func For(l Locale) Table {
	return Table{Locale: l}
}

// Text returns the label for k.
func (t Table) Text(k Key) string {
	return Text(t.Locale, k)
}
