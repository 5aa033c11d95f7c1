package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"sketchflow/internal/diagram"
	"sketchflow/internal/export"
	"sketchflow/internal/geometry"
)

// clipHeader starts clipboard text that carries copied elements.
const clipHeader = "sketchflow/elements\n"

const pasteOffset = 20.0

func encodeElements(elems []diagram.Element) (string, error) {
	data, err := json.Marshal(elems)
	if err != nil {
		return "", err
	}
	return clipHeader + string(data), nil
}

func decodeElements(text string) ([]diagram.Element, bool) {
	body, ok := strings.CutPrefix(text, clipHeader)
	if !ok {
		return nil, false
	}
	var elems []diagram.Element
	if err := json.Unmarshal([]byte(body), &elems); err != nil {
		return nil, false
	}
	return elems, len(elems) > 0
}

// copySelection puts the selected elements on the system clipboard. The
// model keeps its own copy for terminals without clipboard access.
func (m *model) copySelection() {
	elems := m.store.Copy()
	if len(elems) == 0 {
		m.status = "Nothing selected to copy"
		return
	}
	m.clip = elems
	text, err := encodeElements(elems)
	if err == nil {
		err = clipboard.WriteAll(text)
	}
	if err != nil {
		m.log.Debug().Err(err).Msg("system clipboard unavailable")
	}
	m.status = pluralize(len(elems), "element") + " copied"
}

// pasteClipboard pastes copied elements, or turns plain clipboard text into
// a text element in the middle of the view.
func (m *model) pasteClipboard() {
	text, err := readClipboardText()
	if err != nil {
		m.log.Debug().Err(err).Msg("read clipboard")
	}
	if elems, ok := decodeElements(text); ok {
		m.pasteElements(elems)
		return
	}
	if text = strings.TrimSpace(cleanClipboardText(text)); text != "" {
		m.pasteText(text)
		return
	}
	if len(m.clip) > 0 {
		m.pasteElements(m.clip)
		return
	}
	m.status = "Clipboard is empty"
}

func (m *model) pasteElements(elems []diagram.Element) {
	ids := m.store.Paste(elems, pasteOffset, pasteOffset)
	m.status = pluralize(len(ids), "element") + " pasted"
}

func (m *model) pasteText(text string) {
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, len([]rune(l)))
	}
	w := math.Max(100, float64(longest+2)*export.CellWidth)
	h := math.Max(30, float64(len(lines))*export.CellHeight)

	center := m.viewCenter()
	_, err := m.store.AddElement(diagram.TypeText, center.X-w/2, center.Y-h/2, diagram.Patch{
		Width:  diagram.Ptr(w),
		Height: diagram.Ptr(h),
		Text:   diagram.Ptr(text),
	})
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.status = "Text pasted"
}

// viewCenter is the canvas point in the middle of the visible canvas.
func (m *model) viewCenter() geometry.Point {
	view := m.store.View()
	return view.ScreenToCanvas(geometry.Point{
		X: float64(m.width) * export.CellWidth / 2,
		Y: view.Origin.Y + float64(m.canvasRows())*export.CellHeight/2,
	})
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText strips rich-text and HTML markup and control
// characters, and normalises line endings.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	if isRTF(text) {
		text = stripRTF(text)
	} else if isHTML(text) {
		text = stripHTML(text)
	}
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r >= 32 {
			result.WriteRune(r)
		} else if r == '\t' {
			result.WriteString("    ")
		}
	}
	normalized := strings.ReplaceAll(result.String(), "\r\n", "\n")
	return strings.ReplaceAll(normalized, "\r", "\n")
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div") || strings.Contains(t, "<p"))
}

var htmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", "\"",
	"&#39;", "'",
	"&nbsp;", " ",
	"&amp;", "&",
)

func stripHTML(html string) string {
	var result strings.Builder
	result.Grow(len(html))
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}
	return htmlEntities.Replace(result.String())
}

// stripRTF keeps the plain text of an RTF document: control words and
// groups are dropped, escaped braces and backslashes are kept, and \par
// becomes a newline.
func stripRTF(text string) string {
	var result strings.Builder
	result.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{', '}':
			continue
		case '\\':
			if i+1 >= len(runes) {
				continue
			}
			next := runes[i+1]
			if next == '\\' || next == '{' || next == '}' {
				result.WriteRune(next)
				i++
				continue
			}
			j := i + 1
			for j < len(runes) && isLetter(runes[j]) {
				j++
			}
			word := string(runes[i+1 : j])
			for j < len(runes) && (runes[j] == '-' || (runes[j] >= '0' && runes[j] <= '9')) {
				j++
			}
			if j < len(runes) && runes[j] == ' ' {
				j++
			}
			if word == "par" || word == "line" {
				result.WriteRune('\n')
			}
			i = j - 1
		case '\n', '\r':
			continue
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
