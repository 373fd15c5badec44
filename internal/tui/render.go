package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ddaniel27/gitlogue/internal/playback"
	"github.com/ddaniel27/gitlogue/internal/session"
)

type renderer struct {
	screen  tcell.Screen
	palette colorPalette
	hl      *highlighter
	version string
}

func (r *renderer) base() tcell.Style {
	return tcell.StyleDefault.Background(r.palette.Background).Foreground(r.palette.Foreground)
}

func (r *renderer) render(ctrl *session.Controller, now time.Time) {
	r.screen.Fill(' ', r.base())
	w, h := r.screen.Size()
	layout := computeLayout(w, h)
	engine := ctrl.Engine()

	r.drawFileTree(layout.fileTree, engine)
	r.drawEditor(layout.editor, engine)
	r.drawTerminal(layout.terminal, ctrl, now)
	r.drawStatusBar(layout.status, ctrl)

	switch ctrl.Mode() {
	case session.ModeMenu:
		r.drawMenu(w, h, ctrl.MenuIndex())
	case session.ModeKeyBindings:
		r.drawKeyBindings(w, h)
	case session.ModeAbout:
		r.drawAbout(w, h)
	}
	r.screen.Show()
}

func (r *renderer) drawFileTree(area rect, engine *playback.Engine) {
	r.drawBox(area, "Files")
	inner := area.inner()
	meta := engine.Metadata()
	current := engine.CurrentFileIndex()
	for i, file := range meta.Files {
		if i >= inner.h {
			break
		}
		style := r.base()
		marker := "  "
		if i == current {
			marker = "> "
			style = style.Foreground(r.palette.TreeMarker).Bold(true)
		} else if i > current {
			style = style.Foreground(r.palette.Dim)
		}
		r.drawText(inner.x, inner.y+i, inner.w, style, marker+file.Path)
	}
}

func (r *renderer) drawEditor(area rect, engine *playback.Engine) {
	meta := engine.Metadata()
	idx := engine.CurrentFileIndex()
	title := "Editor"
	if idx < len(meta.Files) {
		title = meta.Files[idx].Path
	}
	r.drawBox(area, title)
	inner := area.inner()

	// The engine's viewport metrics are refreshed from the live layout
	// each frame; the reveal algorithm never reads them.
	engine.SetViewportHeight(inner.h)
	engine.SetContentWidth(inner.w)

	lines := engine.RevealedFile(idx)
	offset := scrollOffset(len(lines)-1, inner.h)
	path := ""
	if idx < len(meta.Files) {
		path = meta.Files[idx].Path
	}
	for row := range inner.h {
		i := offset + row
		if i >= len(lines) {
			break
		}
		r.drawDiffLine(inner.x, inner.y+row, inner.w, path, lines[i])
	}
}

func (r *renderer) drawDiffLine(x, y, maxW int, path string, line playback.DiffLine) {
	if maxW <= 0 {
		return
	}
	marker := " "
	style := r.base()
	switch line.Kind {
	case playback.KindAdded:
		marker = "+"
		style = style.Foreground(r.palette.DiffAdd)
	case playback.KindRemoved:
		marker = "-"
		style = style.Foreground(r.palette.DiffDel)
	}
	if strings.HasPrefix(line.Text, "@@") {
		r.drawText(x, y, maxW, r.base().Foreground(r.palette.DiffHeader), line.Text)
		return
	}
	r.drawText(x, y, 1, style, marker)
	col := x + 1
	if line.Kind == playback.KindContext {
		for _, sp := range r.hl.spans(path, line.Text) {
			st := r.base()
			if sp.set {
				st = st.Foreground(sp.color)
			}
			col = r.drawText(col, y, maxW-(col-x), st, sp.text)
		}
		return
	}
	r.drawText(col, y, maxW-1, style, line.Text)
}

func (r *renderer) drawTerminal(area rect, ctrl *session.Controller, now time.Time) {
	r.drawBox(area, "Terminal")
	inner := area.inner()
	engine := ctrl.Engine()
	meta := engine.Metadata()

	prompt := fmt.Sprintf("$ git show %s", meta.ShortHash())
	r.drawText(inner.x, inner.y, inner.w, r.base().Foreground(r.palette.Dim), prompt)

	header := engine.HeaderText()
	if !engine.HeaderFinished() {
		header += "█"
	}
	row := 1
	for _, line := range strings.Split(header, "\n") {
		if row >= inner.h {
			break
		}
		r.drawText(inner.x, inner.y+row, inner.w, r.base().Foreground(r.palette.HeaderText), line)
		row++
	}
	if ctrl.Mode() == session.ModeWaitingForNext && row < inner.h {
		remaining := max(0, int(ctrl.ResumeAt().Sub(now).Round(time.Second)/time.Second))
		msg := fmt.Sprintf("next commit in %ds...", remaining)
		r.drawText(inner.x, inner.y+row, inner.w, r.base().Foreground(r.palette.Dim), msg)
	}
}

func (r *renderer) drawStatusBar(area rect, ctrl *session.Controller) {
	r.drawBox(area, "")
	inner := area.inner()
	meta := ctrl.Engine().Metadata()

	state := "playing"
	if !ctrl.Playing() {
		state = "paused"
	}
	left := fmt.Sprintf("gitlogue %s | %s  %s | %s", r.version, meta.ShortHash(), meta.Author, state)
	right := "space pause | h/l step | p/n history | esc menu | q quit"
	r.drawText(inner.x, inner.y, inner.w, r.base().Foreground(r.palette.StatusText), left)
	if len(right) < inner.w-len(left)-2 {
		r.drawText(inner.x+inner.w-len(right), inner.y, len(right), r.base().Foreground(r.palette.Dim), right)
	}
}

func (r *renderer) drawMenu(w, h, selected int) {
	box := centeredBox(w, h, 30, len(session.MenuItems)+4)
	r.clearBox(box)
	r.drawBox(box, "Menu")
	inner := box.inner()
	for i, item := range session.MenuItems {
		style := r.base()
		label := "  " + item
		if i == selected {
			style = style.Foreground(r.palette.MenuCursor).Bold(true)
			label = "> " + item
		}
		r.drawText(inner.x+1, inner.y+1+i, inner.w-2, style, label)
	}
}

var keyBindingLines = []string{
	"space  pause / resume",
	"l / h  step line forward / back",
	"L / H  step change forward / back",
	"n / p  next / previous commit",
	"esc    menu",
	"q      quit",
}

func (r *renderer) drawKeyBindings(w, h int) {
	box := centeredBox(w, h, 44, len(keyBindingLines)+4)
	r.clearBox(box)
	r.drawBox(box, "Key bindings")
	inner := box.inner()
	for i, line := range keyBindingLines {
		r.drawText(inner.x+1, inner.y+1+i, inner.w-2, r.base(), line)
	}
}

func (r *renderer) drawAbout(w, h int) {
	lines := []string{
		"gitlogue " + r.version,
		"",
		"Replays git commits as a live",
		"typing animation in the terminal.",
	}
	box := centeredBox(w, h, 40, len(lines)+4)
	r.clearBox(box)
	r.drawBox(box, "About")
	inner := box.inner()
	for i, line := range lines {
		r.drawText(inner.x+1, inner.y+1+i, inner.w-2, r.base(), line)
	}
}

func (r *renderer) drawBox(area rect, title string) {
	if area.w < 2 || area.h < 2 {
		return
	}
	style := r.base().Foreground(r.palette.Border)
	for x := area.x + 1; x < area.x+area.w-1; x++ {
		r.screen.SetContent(x, area.y, tcell.RuneHLine, nil, style)
		r.screen.SetContent(x, area.y+area.h-1, tcell.RuneHLine, nil, style)
	}
	for y := area.y + 1; y < area.y+area.h-1; y++ {
		r.screen.SetContent(area.x, y, tcell.RuneVLine, nil, style)
		r.screen.SetContent(area.x+area.w-1, y, tcell.RuneVLine, nil, style)
	}
	r.screen.SetContent(area.x, area.y, tcell.RuneULCorner, nil, style)
	r.screen.SetContent(area.x+area.w-1, area.y, tcell.RuneURCorner, nil, style)
	r.screen.SetContent(area.x, area.y+area.h-1, tcell.RuneLLCorner, nil, style)
	r.screen.SetContent(area.x+area.w-1, area.y+area.h-1, tcell.RuneLRCorner, nil, style)
	if title != "" && len(title)+4 < area.w {
		r.drawText(area.x+2, area.y, area.w-4, r.base().Foreground(r.palette.Title).Bold(true), " "+title+" ")
	}
}

func (r *renderer) clearBox(area rect) {
	for y := area.y; y < area.y+area.h; y++ {
		for x := area.x; x < area.x+area.w; x++ {
			r.screen.SetContent(x, y, ' ', nil, r.base())
		}
	}
}

// drawText writes runes until maxW cells are used; returns the column
// after the last rune.
func (r *renderer) drawText(x, y, maxW int, style tcell.Style, text string) int {
	col := x
	for _, ch := range text {
		if col-x >= maxW {
			break
		}
		r.screen.SetContent(col, y, ch, nil, style)
		col++
	}
	return col
}
