package notebook

import (
	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/locale"
)

// Fixed page regions of the notebook tool.
var (
	ChipLabel     = browser.CSS("span.mdc-evolution-chip__text-label")
	URLInput      = browser.CSS("[formcontrolname='newUrl']")
	Spinner       = browser.CSS(".mat-progress-spinner")
	TitleHeading  = browser.CSS("h1.notebook-title")
	SummaryRegion = browser.CSS("div.summary-content")
	MenuLink      = browser.CSS("a[mat-menu-item]")
)

// ButtonFor is the button labelled k in t.
func ButtonFor(t locale.Table, k locale.Key) browser.Selector {
	return browser.Button(t.Text(k))
}

// DownloadLink is the download entry of the audio player menu.
func DownloadLink(t locale.Table) browser.Selector {
	return MenuLink.WithText(t.Text(locale.Download))
}
