package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type KeyHandler func(m Model) (Model, tea.Cmd, bool)

type binding struct {
	key     key.Binding
	handler KeyHandler
	views   []int
}

func (b binding) activeIn(view int) bool {
	if len(b.views) == 0 {
		return true
	}
	for _, v := range b.views {
		if v == view {
			return true
		}
	}
	return false
}

// keyMap routes key presses to handlers. Bindings are tried in the order
// they were added; a handler may decline a key.
type keyMap struct {
	bindings []binding
}

func (k *keyMap) add(kb key.Binding, h KeyHandler, views ...int) {
	k.bindings = append(k.bindings, binding{key: kb, handler: h, views: views})
}

func (k *keyMap) Handle(m Model, msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	for _, b := range k.bindings {
		if !b.activeIn(m.viewMode) || !key.Matches(msg, b.key) {
			continue
		}
		if next, cmd, handled := b.handler(m); handled {
			return next, cmd, true
		}
	}
	return m, nil, false
}

func (k *keyMap) HelpForView(view int) string {
	var parts []string
	for _, b := range k.bindings {
		h := b.key.Help()
		if !b.activeIn(view) || h.Key == "" {
			continue
		}
		parts = append(parts, "["+h.Key+"]"+h.Desc)
	}
	return strings.Join(parts, "|")
}

func newKeyMap() *keyMap {
	k := &keyMap{}
	k.add(key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "Press")), handlePress, ViewToday)
	k.add(key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "Punch")), handlePunch, ViewToday)
	k.add(key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Reset")), handleOpenReset, ViewToday)
	k.add(key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "Override")), handleOpenOverride, ViewToday, ViewMonth)
	k.add(key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "View")), handleNextView)
	k.add(key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Theme")), handleNextTheme)
	k.add(key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "Quit")), handleQuit)
	return k
}
