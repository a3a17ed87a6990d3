package browser

import (
	"encoding/json"
	"fmt"
)

// refAttr tags the element an action resolved to, so chromedp can act on it
// through a plain CSS selector.
const refAttr = "data-nbpod-ref"

// matchJS defines nbpodMatch(css, text): the elements matching css and the
// text filter, plus the one an action should use (first visible, else first).
// The text filter mirrors Selector.MatchesText.
const matchJS = `
const nbpodNorm = s => (s || '').replace(/\s+/g, ' ').trim().toLowerCase();
const nbpodVisible = el => {
  if (!(el.offsetWidth || el.offsetHeight || el.getClientRects().length)) return false;
  const st = getComputedStyle(el);
  return st.visibility !== 'hidden' && st.display !== 'none';
};
const nbpodMatch = (css, text) => {
  const want = nbpodNorm(text);
  const all = Array.from(document.querySelectorAll(css)).filter(el =>
    !want || nbpodNorm(el.innerText).includes(want) || nbpodNorm(el.getAttribute('aria-label')).includes(want));
  return {all, el: all.find(nbpodVisible) || all[0] || null};
};
`

// probeResult is the state of the element a selector resolves to.
type probeResult struct {
	Count   int    `json:"count"`
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
	Ref     string `json:"ref"`
}

func probeScript(sel Selector, ref string) string {
	return fmt.Sprintf(`(() => {%s
  const m = nbpodMatch(%s, %s);
  if (!m.el) return {count: 0, visible: false, enabled: false, ref: ''};
  const ref = %s;
  if (ref) m.el.setAttribute(%s, ref);
  return {
    count: m.all.length,
    visible: nbpodVisible(m.el),
    enabled: !m.el.disabled && m.el.getAttribute('aria-disabled') !== 'true',
    ref: ref,
  };
})()`, matchJS, jsString(sel.CSS), jsString(sel.Text), jsString(ref), jsString(refAttr))
}

func textsScript(sel Selector) string {
	return fmt.Sprintf(`(() => {%s
  return nbpodMatch(%s, %s).all.map(el => (el.innerText || '').trim());
})()`, matchJS, jsString(sel.CSS), jsString(sel.Text))
}

// attrResult is an attribute read; OK is false when the attribute is absent.
type attrResult struct {
	Found bool   `json:"found"`
	OK    bool   `json:"ok"`
	Value string `json:"value"`
}

func attributeScript(sel Selector, name string) string {
	return fmt.Sprintf(`(() => {%s
  const el = nbpodMatch(%s, %s).el;
  if (!el) return {found: false, ok: false, value: ''};
  return {found: true, ok: el.hasAttribute(%s), value: el.getAttribute(%s) || ''};
})()`, matchJS, jsString(sel.CSS), jsString(sel.Text), jsString(name), jsString(name))
}

// fillScript sets the value of the element tagged ref. Inputs get the native
// value setter plus input/change events so framework bindings notice;
// contenteditable regions get an insertText edit.
func fillScript(ref, value string) string {
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return false;
  el.focus();
  const value = %s;
  if (el.isContentEditable) {
    document.execCommand('selectAll', false, null);
    document.execCommand('insertText', false, value);
    return true;
  }
  const proto = el instanceof HTMLTextAreaElement ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
  Object.getOwnPropertyDescriptor(proto, 'value').set.call(el, value);
  el.dispatchEvent(new Event('input', {bubbles: true}));
  el.dispatchEvent(new Event('change', {bubbles: true}));
  return true;
})()`, jsString(refSelector(ref)), jsString(value))
}

// jsString renders s as a JavaScript string literal. JSON string syntax is a
// subset of it, unlike Go quoting whose \a and \U escapes JS reads wrongly.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

const langScript = `document.documentElement.lang || ''`

// refSelector is the CSS selector for the element tagged ref. Refs are
// decimal counters, so the value never needs escaping.
func refSelector(ref string) string {
	return fmt.Sprintf(`[%s="%s"]`, refAttr, ref)
}
