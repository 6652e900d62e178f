package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/briankim1512/SlideSearch/internal/ingest"
	"github.com/briankim1512/SlideSearch/internal/logger"
	"github.com/briankim1512/SlideSearch/internal/search"
	"github.com/briankim1512/SlideSearch/internal/session"
	"github.com/briankim1512/SlideSearch/internal/slide"
)

const (
	searchTimeout = 15 * time.Second
	stitchTimeout = 2 * time.Minute
)

type mode int

const (
	modeHome mode = iota
	modeBrowse
	modeQuery
	modeUpload
	modeDetail
	modeHelp
)

type App struct {
	ctx      context.Context
	cancel   context.CancelFunc
	sess     *session.Session
	store    session.SlideStore
	ingester session.Ingester
	mode     mode
	prevMode mode

	width  int
	height int

	query   queryBar
	upload  textinput.Model
	results table.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	detailScroll int
	slideCount   int
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Store      session.SlideStore
	Ingester   session.Ingester
	Debounce   time.Duration
	SlideCount int
}

func NewApp(ctx context.Context, opts RunOpts) *App {
	ctx, cancel := context.WithCancel(ctx)

	up := textinput.New()
	up.Placeholder = `~/Decks/*.pptx "/path/with spaces/deck.pptx"`
	up.Prompt = promptStyle.Render("upload> ")
	up.CharLimit = 2048

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	t := table.New(table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(colorAccent).
		Bold(true)
	t.SetStyles(styles)

	return &App{
		ctx:        ctx,
		cancel:     cancel,
		sess:       session.New(opts.Debounce),
		store:      opts.Store,
		ingester:   opts.Ingester,
		query:      newQueryBar(),
		upload:     up,
		results:    t,
		spinner:    sp,
		help:       help.New(),
		keys:       defaultKeyMap(),
		slideCount: opts.SlideCount,
	}
}

func (a *App) Init() tea.Cmd {
	return nil
}

// exec turns session effects into commands. Commands capture everything
// they need so they never read App state from another goroutine.
func (a *App) exec(effects []session.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case session.ScheduleSearch:
			token := e.Token
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg {
				return debounceMsg{token: token}
			}))
		case session.RunSearch:
			cmds = append(cmds, a.searchCmd(e.Request), a.spinner.Tick)
		case session.RunStitch:
			cmds = append(cmds, a.stitchCmd(e.IDs, e.Open), a.spinner.Tick)
		case session.RunIngest:
			cmds = append(cmds, a.ingestCmd(e.Paths), a.spinner.Tick)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (a *App) searchCmd(req search.Request) tea.Cmd {
	ctx, store := a.ctx, a.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, searchTimeout)
		defer cancel()
		records, err := store.Search(ctx, req.Query)
		return searchDoneMsg{seq: req.Seq, records: records, err: err}
	}
}

func (a *App) stitchCmd(ids []slide.ID, open bool) tea.Cmd {
	ctx, store := a.ctx, a.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, stitchTimeout)
		defer cancel()
		res, err := store.Stitch(ctx, ids)
		return stitchDoneMsg{open: open, result: res, err: err}
	}
}

// ingestCmd runs the upload and streams its progress through a channel that
// is read one message at a time.
func (a *App) ingestCmd(paths []string) tea.Cmd {
	ctx, in := a.ctx, a.ingester
	ch := make(chan tea.Msg, 8)
	run := func() tea.Msg {
		// nobody reads ch once the program has quit
		send := func(msg tea.Msg) {
			select {
			case ch <- msg:
			case <-ctx.Done():
			}
		}
		report, err := in.Ingest(ctx, paths, func(p ingest.Progress) {
			send(ingestProgressMsg{progress: p, next: ch})
		})
		send(ingestDoneMsg{report: report, err: err})
		close(ch)
		return nil
	}
	return tea.Batch(run, listen(ch))
}

// quit cancels work still running on behalf of the app and exits.
func (a *App) quit() tea.Cmd {
	a.cancel()
	return tea.Quit
}

func listen(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (a *App) busy() bool {
	return a.sess.Searching() || a.sess.Stitching() || a.sess.Opening() || a.sess.Ingesting()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.refreshTable()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case debounceMsg:
		return a, a.exec(a.sess.DebounceFired(msg.token))

	case searchDoneMsg:
		a.sess.SearchCompleted(msg.seq, msg.records, msg.err)
		a.refreshTable()
		return a, nil

	case stitchDoneMsg:
		a.sess.StitchCompleted(msg.open, msg.result, msg.err)
		a.refreshTable()
		return a, nil

	case ingestProgressMsg:
		a.sess.IngestProgress(msg.progress)
		return a, listen(msg.next)

	case ingestDoneMsg:
		if msg.err == nil {
			a.slideCount += msg.report.SlideCount()
		}
		return a, a.exec(a.sess.IngestCompleted(msg.report, msg.err))

	case spinner.TickMsg:
		if a.busy() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

// refreshTable rebuilds the results table from the session.
func (a *App) refreshTable() {
	if a.width == 0 {
		return
	}
	cols := resultColumns(a.sess, a.width-4)
	rows := resultRows(a.sess.Rows(), cols)
	// rows first: SetColumns renders the existing rows against the new columns
	a.results.SetRows(nil)
	a.results.SetColumns(cols)
	a.results.SetRows(rows)
	if c := a.results.Cursor(); c >= len(rows) {
		a.results.SetCursor(max(0, len(rows)-1))
	}
	a.results.SetHeight(a.tableHeight())
}

func (a *App) tableHeight() int {
	// header, query bar, advanced row, actions, status, borders
	h := a.height - 8
	if a.sess.Advanced() {
		h--
	}
	if h < 3 {
		h = 3
	}
	return h
}

// current returns the record under the cursor.
func (a *App) current() *slide.Record {
	rows := a.sess.Rows()
	c := a.results.Cursor()
	if c < 0 || c >= len(rows) {
		return nil
	}
	r := rows[c].Record
	return &r
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a, a.quit()
	}
	if key.Matches(msg, a.keys.Reset) && a.mode != modeUpload {
		a.sess.Reset()
		a.query.setValues(search.Inputs{})
		a.query.blur()
		a.mode = modeHome
		a.refreshTable()
		return a, nil
	}

	switch a.mode {
	case modeHome:
		return a.handleHomeKey(msg)
	case modeQuery:
		return a.handleQueryKey(msg)
	case modeUpload:
		return a.handleUploadKey(msg)
	case modeDetail:
		return a.handleDetailKey(msg)
	case modeHelp:
		if key.Matches(msg, a.keys.Help, a.keys.Back, a.keys.Quit) {
			a.mode = a.prevMode
		}
		return a, nil
	}
	return a.handleBrowseKey(msg)
}

func (a *App) startQuery() (tea.Model, tea.Cmd) {
	a.mode = modeQuery
	return a, a.query.focusField(fieldText)
}

func (a *App) startUpload() (tea.Model, tea.Cmd) {
	a.prevMode = a.mode
	a.mode = modeUpload
	a.upload.SetValue("")
	return a, a.upload.Focus()
}

func (a *App) toggleAdvanced() (tea.Model, tea.Cmd) {
	cmd := a.exec(a.sess.ToggleAdvanced())
	a.query.setValues(a.sess.Inputs())
	a.refreshTable()
	if a.sess.Advanced() {
		a.mode = modeQuery
		return a, tea.Batch(cmd, a.query.focusField(fieldTitle))
	}
	if a.query.focus != fieldText {
		a.query.focusField(fieldText)
	}
	return a, cmd
}

func (a *App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, a.quit()
	case key.Matches(msg, a.keys.Search):
		return a.startQuery()
	case key.Matches(msg, a.keys.Advanced):
		return a.toggleAdvanced()
	case key.Matches(msg, a.keys.Upload):
		return a.startUpload()
	case key.Matches(msg, a.keys.Help):
		a.prevMode, a.mode = a.mode, modeHelp
	}
	return a, nil
}

func (a *App) handleQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.Confirm):
		a.query.blur()
		a.mode = modeBrowse
		if a.sess.View() == session.ViewLanding {
			a.mode = modeHome
		}
		return a, nil
	case key.Matches(msg, a.keys.NextField):
		return a, a.query.cycle(1, a.sess.Advanced())
	case key.Matches(msg, a.keys.PrevField):
		return a, a.query.cycle(-1, a.sess.Advanced())
	}

	cmd := a.query.update(msg)
	// the session ignores edits that leave the query unchanged
	effects := a.sess.EditInputs(a.query.values())
	a.refreshTable()
	return a, tea.Batch(cmd, a.exec(effects))
}

func (a *App) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.upload.Blur()
		a.mode = a.prevMode
		return a, nil
	case key.Matches(msg, a.keys.Confirm):
		a.upload.Blur()
		a.mode = a.prevMode
		paths := ingest.ParsePaths(a.upload.Value())
		return a, a.exec(a.sess.RequestIngest(paths))
	}
	var cmd tea.Cmd
	a.upload, cmd = a.upload.Update(msg)
	return a, cmd
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.BackToList):
		a.mode = modeBrowse
		a.detailScroll = 0
	case key.Matches(msg, a.keys.Open):
		if r := a.current(); r != nil {
			return a, a.exec(a.sess.RequestOpen(r.ID))
		}
	case key.Matches(msg, a.keys.Toggle):
		if r := a.current(); r != nil {
			a.sess.Toggle(r.ID)
			a.refreshTable()
		}
	case key.Matches(msg, a.keys.Down):
		a.detailScroll++
	case key.Matches(msg, a.keys.Up):
		if a.detailScroll > 0 {
			a.detailScroll--
		}
	case key.Matches(msg, a.keys.Quit):
		return a, a.quit()
	}
	return a, nil
}

func (a *App) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, a.quit()
	case key.Matches(msg, a.keys.Search):
		return a.startQuery()
	case key.Matches(msg, a.keys.Advanced):
		return a.toggleAdvanced()
	case key.Matches(msg, a.keys.Upload):
		return a.startUpload()
	case key.Matches(msg, a.keys.Help):
		a.prevMode, a.mode = a.mode, modeHelp
		return a, nil
	case key.Matches(msg, a.keys.Toggle):
		if r := a.current(); r != nil {
			a.sess.Toggle(r.ID)
			a.refreshTable()
		}
		return a, nil
	case key.Matches(msg, a.keys.Zoom):
		if a.current() != nil {
			a.mode = modeDetail
			a.detailScroll = 0
		}
		return a, nil
	case key.Matches(msg, a.keys.Open):
		if r := a.current(); r != nil {
			return a, a.exec(a.sess.RequestOpen(r.ID))
		}
		return a, nil
	case key.Matches(msg, a.keys.Stitch):
		cmd := a.exec(a.sess.RequestStitch())
		a.refreshTable()
		return a, cmd
	case key.Matches(msg, a.keys.SortTitle):
		cmd := a.exec(a.sess.ClickSort(search.ColumnTitle))
		a.refreshTable()
		return a, cmd
	case key.Matches(msg, a.keys.SortDate):
		cmd := a.exec(a.sess.ClickSort(search.ColumnModified))
		a.refreshTable()
		return a, cmd
	}

	var cmd tea.Cmd
	a.results, cmd = a.results.Update(msg)
	return a, cmd
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderStatusBar(a.sess, a.spinner.View(), hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  slidesearch")
	}

	switch a.mode {
	case modeHelp:
		return a.withBottomBar(a.renderHelp(), "? close  q quit")
	case modeUpload:
		body := lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render("Upload presentations"),
			"",
			"  "+a.upload.View(),
			"",
			helpDimStyle.Render("  Paths separated by spaces. Quote paths with spaces. Folders are searched for .pptx files."),
		)
		return a.withBottomBar(body, "enter upload  esc cancel")
	case modeHome:
		bar := a.query.render(min(a.width-4, 80), a.sess.Advanced(), false)
		return a.withBottomBar(renderHomeScreen(a.width, a.height-1, bar, a.slideCount), "/ search  u upload  ? help  q quit")
	}
	if a.mode == modeQuery && a.sess.View() == session.ViewLanding {
		bar := a.query.render(min(a.width-4, 80), a.sess.Advanced(), true)
		return a.withBottomBar(renderHomeScreen(a.width, a.height-1, bar, a.slideCount), "tab next field  enter done  esc back")
	}

	// Header
	headerLeft := headerStyle.Render("slidesearch")
	headerRight := headerMetaStyle.Render(fmt.Sprintf("%d results · %d selected ", len(a.sess.Results()), a.sess.Selected()))
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	bar := a.query.render(a.width, a.sess.Advanced(), a.mode == modeQuery)

	var content string
	if a.mode == modeDetail {
		r := a.current()
		selected := r != nil && a.sess.IsSelected(r.ID)
		content = renderDetail(r, selected, a.sess.OpenLabel(), a.sess.Opening(), a.width, a.tableHeight()+2, a.detailScroll)
	} else {
		pane := resultsPaneStyle
		if a.mode == modeBrowse {
			pane = resultsPaneActiveStyle
		}
		body := a.results.View()
		if len(a.sess.Results()) == 0 {
			body = lipglossCenter("No slides match", a.width-4, a.tableHeight())
		}
		content = pane.Width(a.width - 2).Height(a.tableHeight() + 1).Render(body)
	}

	actions := " " + renderActions(a.sess)

	hints := a.help.ShortHelpView(a.keys.ShortHelp())
	switch a.mode {
	case modeQuery:
		hints = "tab next field  enter done  esc back"
	case modeDetail:
		hints = "o open  space select  esc back"
	}

	return a.withBottomBar(lipgloss.JoinVertical(lipgloss.Left, header, bar, content, actions), hints)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("slidesearch")
	a.help.ShowAll = true
	body := a.help.View(a.keys)
	a.help.ShowAll = false

	card := helpCardStyle.Render(title + helpDimStyle.Render(" · Keyboard Shortcuts") + "\n\n" + body)
	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(ctx context.Context, opts RunOpts) error {
	log := logger.FromContext(ctx)
	log.Info("starting tui", zap.Int("slides", opts.SlideCount), zap.Duration("debounce", opts.Debounce))

	app := NewApp(ctx, opts)
	defer app.cancel()
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Error("tui exited", zap.Error(err))
		return err
	}
	return nil
}
