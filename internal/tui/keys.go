package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search     key.Binding
	Advanced   key.Binding
	Toggle     key.Binding
	Zoom       key.Binding
	Open       key.Binding
	Stitch     key.Binding
	SortTitle  key.Binding
	SortDate   key.Binding
	Upload     key.Binding
	Reset      key.Binding
	Back       key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Up         key.Binding
	Down       key.Binding
	Confirm    key.Binding
	BackToList key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Advanced:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "advanced")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "select")),
		Zoom:       key.NewBinding(key.WithKeys("enter", "z"), key.WithHelp("enter", "zoom")),
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Stitch:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stitch")),
		SortTitle:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "sort title")),
		SortDate:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "sort modified")),
		Upload:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Reset:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Confirm:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		BackToList: key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter/esc", "results")),
	}
}

// ShortHelp is shown in the status bar of the results view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Toggle, k.Zoom, k.Stitch, k.Upload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Zoom, k.Open},
		{k.Search, k.Advanced, k.NextField, k.PrevField, k.BackToList},
		{k.SortTitle, k.SortDate, k.Stitch, k.Upload},
		{k.Reset, k.Back, k.Help, k.Quit},
	}
}
