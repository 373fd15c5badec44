package tui

// rect is a screen region in cell coordinates.
type rect struct {
	x, y, w, h int
}

func (r rect) inner() rect {
	return rect{x: r.x + 1, y: r.y + 1, w: max(0, r.w-2), h: max(0, r.h-2)}
}

// paneLayout carves the screen the way the original panes sit: file tree
// on the left 30%, editor over terminal on the right (80/20), and a
// 3-row status bar along the bottom.
type paneLayout struct {
	fileTree rect
	editor   rect
	terminal rect
	status   rect
}

const statusBarHeight = 3

func computeLayout(width, height int) paneLayout {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	contentHeight := max(0, height-statusBarHeight)
	treeWidth := width * 30 / 100
	rightWidth := width - treeWidth
	editorHeight := contentHeight * 80 / 100
	return paneLayout{
		fileTree: rect{x: 0, y: 0, w: treeWidth, h: contentHeight},
		editor:   rect{x: treeWidth, y: 0, w: rightWidth, h: editorHeight},
		terminal: rect{x: treeWidth, y: editorHeight, w: rightWidth, h: contentHeight - editorHeight},
		status:   rect{x: 0, y: contentHeight, w: width, h: min(statusBarHeight, height)},
	}
}

// scrollOffset keeps the reveal cursor's line inside the viewport,
// clinging to the bottom once content overflows.
func scrollOffset(cursorLine, viewportHeight int) int {
	if viewportHeight <= 0 {
		return cursorLine
	}
	if cursorLine < viewportHeight {
		return 0
	}
	return cursorLine - viewportHeight + 1
}

// centeredBox places an overlay of the requested size in the middle of
// the screen, clamped to fit.
func centeredBox(screenW, screenH, boxW, boxH int) rect {
	boxW = min(boxW, screenW)
	boxH = min(boxH, screenH)
	return rect{
		x: (screenW - boxW) / 2,
		y: (screenH - boxH) / 2,
		w: boxW,
		h: boxH,
	}
}
