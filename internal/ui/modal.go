package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	// Box renders the modal's bordered box for a screen of width x height.
	Box(theme Theme, width, height int) string
}

// modalRect is the screen area covered by a centered modal box.
type modalRect struct {
	left, top, width, height int
}

// contains reports whether the cell at x, y lies inside the box.
func (r modalRect) contains(x, y int) bool {
	return x >= r.left && x < r.left+r.width && y >= r.top && y < r.top+r.height
}

// placeModal centers box on a screen filled with the theme background.
func placeModal(box string, theme Theme, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(theme.Background)),
	)
}

// modalBounds returns where placeModal puts box on a width x height screen.
func modalBounds(box string, width, height int) modalRect {
	w := lipgloss.Width(box)
	h := lipgloss.Height(box)
	left := (width - w) / 2
	top := (height - h) / 2
	if left < 0 {
		left = 0
	}
	if top < 0 {
		top = 0
	}
	return modalRect{left: left, top: top, width: w, height: h}
}

// modalFrame is the bordered container shared by every modal.
func modalFrame(theme Theme, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Background(lipgloss.Color(theme.Surface)).
		Padding(1, 2).
		Width(width)
}

// modalSize fits a modal into the screen, capped at maxWidth.
func modalSize(width, height, maxWidth int) (w, h int) {
	w = width - 4
	if w > maxWidth {
		w = maxWidth
	}
	if w < 30 {
		w = 30
	}
	h = height - 4
	if h < 8 {
		h = 8
	}
	return w, h
}

// clickedOutside reports whether msg is a left-button press outside box.
func clickedOutside(msg tea.MouseMsg, box string, width, height int) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	return !modalBounds(box, width, height).contains(msg.X, msg.Y)
}
