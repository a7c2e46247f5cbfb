package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/linkverse/linkverse/internal/browser"
	"github.com/linkverse/linkverse/internal/enrich"
	"github.com/linkverse/linkverse/internal/gateway"
	"github.com/linkverse/linkverse/internal/store"
)

type focusPane int

const (
	focusList focusPane = iota
	focusDetail
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeFilter
	modeAdd
	modeConfirmDelete
	modeHelp
)

type App struct {
	store    *store.Store
	gw       *gateway.Client
	analyzer *enrich.Analyzer
	log      logrus.FieldLogger

	snap    store.Snapshot
	visible []gateway.Link
	cursor  int
	focus   focusPane
	mode    mode

	width  int
	height int

	// Sub-components
	searchInput textinput.Model
	spinner     spinner.Model
	filterBar   filterBar
	form        *addForm

	// Debounced URL analysis; send delivers the fire back into the program loop.
	deb  *enrich.Debouncer
	send func(tea.Msg)

	// State
	favoritesOnly bool
	detailScroll  int
	refreshing    bool
	busy          bool
	pendingDelete *gateway.Link
	userEmail     string
	currentDate   string
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Store    *store.Store
	Gateway  *gateway.Client
	Analyzer *enrich.Analyzer
	Log      logrus.FieldLogger
	Email    string
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search links..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &App{
		store:       opts.Store,
		gw:          opts.Gateway,
		analyzer:    opts.Analyzer,
		log:         log,
		searchInput: ti,
		spinner:     sp,
		deb:         enrich.NewDebouncer(enrich.DefaultDebounce),
		send:        func(tea.Msg) {},
		userEmail:   opts.Email,
		currentDate: time.Now().Format("Jan 2"),
	}
}

func (a *App) Init() tea.Cmd {
	a.refreshing = true
	return tea.Batch(a.loadDataCmd(false), a.spinner.Tick)
}

// loadDataCmd reads through the shared store; invalidate forces the next read
// past the freshness window.
func (a *App) loadDataCmd(invalidate bool) tea.Cmd {
	st := a.store
	return func() tea.Msg {
		if invalidate {
			st.Invalidate()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		snap, err := st.Snapshot(ctx)
		return dataLoadedMsg{snap: snap, err: err}
	}
}

func (a *App) saveLinkCmd(attrs gateway.LinkAttrs) tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		link, err := gw.CreateLink(ctx, attrs)
		if err != nil {
			return dataErrMsg{err: err}
		}
		return linkSavedMsg{link: link}
	}
}

func (a *App) toggleFavoriteCmd(link gateway.Link) tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		updated, err := gw.ToggleFavorite(ctx, link.ID, !link.IsFavorite)
		if err != nil {
			return dataErrMsg{err: err}
		}
		return favoriteToggledMsg{link: updated}
	}
}

func (a *App) deleteLinkCmd(id string) tea.Cmd {
	gw := a.gw
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := gw.DeleteLink(ctx, id); err != nil {
			return dataErrMsg{err: err}
		}
		return linkDeletedMsg{id: id}
	}
}

// openLinkCmd opens the browser and records the access time. The touch is
// best-effort; a failure there must not block reading the link.
func (a *App) openLinkCmd(link gateway.Link) tea.Cmd {
	gw := a.gw
	log := a.log
	return func() tea.Msg {
		if err := browser.Open(link.URL); err != nil {
			return dataErrMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := gw.TouchLastAccessed(ctx, link.ID); err != nil {
			log.WithError(err).Debug("could not record last access")
		}
		return nil
	}
}

func (a *App) analyzeCmd(rawURL string) tea.Cmd {
	analyzer := a.analyzer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		md, err := analyzer.Analyze(ctx, rawURL)
		if err == enrich.ErrSuperseded {
			return nil
		}
		if err != nil {
			return analyzeFailedMsg{url: rawURL, err: err}
		}
		return metadataMsg{url: rawURL, md: md}
	}
}

func (a *App) refilter() {
	a.visible = applyFilter(a.snap.Links, a.filterBar.activeID, a.favoritesOnly, a.searchInput.Value())
	if a.cursor >= len(a.visible) {
		a.cursor = max(0, len(a.visible)-1)
	}
}

func (a *App) selected() *gateway.Link {
	if len(a.visible) == 0 || a.cursor >= len(a.visible) {
		return nil
	}
	return &a.visible[a.cursor]
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case dataLoadedMsg:
		a.refreshing = false
		a.busy = false
		a.snap = msg.snap
		a.err = msg.err
		a.filterBar.setCollections(a.snap.Collections)
		a.refilter()
		return a, nil

	case dataErrMsg:
		a.busy = false
		if a.mode == modeAdd && a.form != nil && a.form.saving {
			a.form.saving = false
			a.form.err = msg.err
			return a, nil
		}
		a.err = msg.err
		return a, nil

	case linkSavedMsg:
		a.form = nil
		a.mode = modeList
		a.refreshing = true
		return a, tea.Batch(a.loadDataCmd(true), a.spinner.Tick)

	case favoriteToggledMsg:
		// Patch the local copy so the star flips immediately, then refetch.
		for i := range a.snap.Links {
			if a.snap.Links[i].ID == msg.link.ID {
				a.snap.Links[i].IsFavorite = msg.link.IsFavorite
			}
		}
		a.refilter()
		return a, a.loadDataCmd(true)

	case linkDeletedMsg:
		a.refreshing = true
		return a, tea.Batch(a.loadDataCmd(true), a.spinner.Tick)

	case analyzeRequestMsg:
		if a.mode != modeAdd || a.form == nil || a.analyzer == nil || a.form.url() != msg.url {
			return a, nil
		}
		a.form.analyzing = true
		a.form.err = nil
		return a, tea.Batch(a.analyzeCmd(msg.url), a.spinner.Tick)

	case metadataMsg:
		if a.mode == modeAdd && a.form != nil && a.form.url() == msg.url {
			a.form.applyMetadata(msg.md, a.snap.Collections)
		}
		return a, nil

	case analyzeFailedMsg:
		if a.mode == modeAdd && a.form != nil {
			a.form.analyzing = false
			a.form.note = "Could not analyze URL; defaults will be used."
		}
		return a, nil

	case spinner.TickMsg:
		if a.refreshing || a.busy || (a.form != nil && (a.form.analyzing || a.form.saving)) {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeAdd:
		return a.handleFormKey(msg)
	case modeConfirmDelete:
		return a.handleConfirmKey(msg)
	case modeHelp:
		if s := msg.String(); s == "?" || s == "esc" || s == "q" {
			a.mode = modeList
		}
		return a, nil
	}

	// List mode
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.visible)-1 {
			a.cursor++
			a.detailScroll = 0
		} else if a.focus == focusDetail {
			a.detailScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.detailScroll = 0
		} else if a.focus == focusDetail && a.detailScroll > 0 {
			a.detailScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusDetail
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if sel := a.selected(); sel != nil {
			return a, a.openLinkCmd(*sel)
		}
		return a, nil
	case "a":
		a.form = newAddForm()
		a.mode = modeAdd
		return a, textinput.Blink
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		if sel := a.selected(); sel != nil && !a.busy {
			a.busy = true
			return a, tea.Batch(a.toggleFavoriteCmd(*sel), a.spinner.Tick)
		}
		return a, nil
	case "F":
		a.favoritesOnly = !a.favoritesOnly
		a.cursor = 0
		a.refilter()
		return a, nil
	case "c":
		a.mode = modeFilter
		a.filterBar.filterMode = true
		return a, nil
	case "d":
		if sel := a.selected(); sel != nil {
			link := *sel
			a.pendingDelete = &link
			a.mode = modeConfirmDelete
		}
		return a, nil
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, tea.Batch(a.loadDataCmd(true), a.spinner.Tick)
		}
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeList
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.refilter()
		return a, nil
	case "enter":
		a.mode = modeList
		a.searchInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Filtering is local to the snapshot, so it can track every keystroke.
	a.cursor = 0
	a.refilter()
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "c":
		a.mode = modeList
		a.filterBar.filterMode = false
		return a, nil
	case "left", "h":
		if a.filterBar.cursor > 0 {
			a.filterBar.cursor--
		}
		return a, nil
	case "right", "l":
		if a.filterBar.cursor < len(a.filterBar.collections)-1 {
			a.filterBar.cursor++
		}
		return a, nil
	case " ", "enter":
		a.filterBar.toggleCurrent()
		a.cursor = 0
		a.refilter()
		return a, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.filterBar.collections) {
			a.filterBar.cursor = idx
			a.filterBar.toggleCurrent()
			a.cursor = 0
			a.refilter()
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		link := a.pendingDelete
		a.pendingDelete = nil
		a.mode = modeList
		if link != nil {
			a.busy = true
			return a, tea.Batch(a.deleteLinkCmd(link.ID), a.spinner.Tick)
		}
		return a, nil
	case "n", "esc", "q":
		a.pendingDelete = nil
		a.mode = modeList
		return a, nil
	}
	return a, nil
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := a.form
	if f == nil {
		a.mode = modeList
		return a, nil
	}
	if f.saving {
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.deb.Cancel()
		a.form = nil
		a.mode = modeList
		return a, nil
	case "tab", "down":
		return a, f.nextField()
	case "shift+tab", "up":
		return a, f.prevField()
	case "enter":
		attrs, err := f.attrs(a.snap.Collections)
		if err != nil {
			f.err = err
			return a, nil
		}
		a.deb.Cancel()
		f.saving = true
		f.err = nil
		return a, tea.Batch(a.saveLinkCmd(attrs), a.spinner.Tick)
	}

	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)

	// A pause in URL typing kicks off analysis for whatever is current then.
	if f.focus == fieldURL && f.inputs[fieldURL].Value() != before && a.analyzer != nil {
		send := a.send
		url := f.url()
		f.md = nil
		f.note = ""
		if url != "" {
			a.deb.Trigger(func() { send(analyzeRequestMsg{url: url}) })
		} else {
			a.deb.Cancel()
		}
	}
	return a, cmd
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  linkverse")
	}

	if a.mode == modeAdd && a.form != nil {
		return a.form.render(a.width, a.height, a.spinner.View())
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	if a.mode == modeConfirmDelete && a.pendingDelete != nil {
		prompt := fmt.Sprintf("Delete %q?\n\n", truncateStr(a.pendingDelete.Title, 50)) +
			helpDimStyle.Render("y delete  n cancel")
		card := formCardStyle.Render(prompt)
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
	}

	// Layout calculations
	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.4)
	detailWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header
	headerLeft := headerStyle.Render("linkverse")
	right := a.currentDate
	if a.userEmail != "" {
		right = a.userEmail
	}
	headerRight := headerDateStyle.Render(right)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	// Collection filter bar; the search input replaces it while searching
	filter := a.filterBar.render(a.width)
	if a.mode == modeSearch {
		filter = a.searchInput.View()
	}

	// List pane
	emptyHint := "No links yet — press a to add one"
	if a.snap.Populated && len(a.snap.Links) > 0 {
		emptyHint = "No links match"
	} else if !a.snap.Populated {
		emptyHint = "Loading..."
	}
	innerListW := listWidth - 4 // border + padding
	listContent := renderList(a.visible, a.cursor, contentHeight, innerListW, emptyHint)

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	// Detail pane
	innerDetailW := detailWidth - 4
	detailContent := renderDetail(a.selected(), innerDetailW, contentHeight, a.detailScroll)

	var detailPane string
	if a.focus == focusDetail {
		detailPane = detailPaneActiveStyle.Width(detailWidth - 2).Height(contentHeight).Render(detailContent)
	} else {
		detailPane = detailPaneStyle.Width(detailWidth - 2).Height(contentHeight).Render(detailContent)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)

	status := renderStatusBar(
		len(a.visible),
		a.filterBar.activeLabel(),
		a.favoritesOnly,
		a.width,
		a.mode == modeSearch,
		a.refreshing,
	)

	if a.refreshing || a.busy {
		status = a.spinner.View() + " " + status
	}

	if a.err != nil {
		status = lipgloss.NewStyle().Foreground(colorAccent).Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("linkverse")
	dim := helpDimStyle

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Navigate link list\n" +
		"  tab           Switch focus between list and detail\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open link in browser\n" +
		"  a             Add a link\n" +
		"  f             Toggle favorite\n" +
		"  d             Delete link\n" +
		"  r             Refresh data\n" +
		"  /             Search links\n\n" +
		dim.Render("Filters") + "\n" +
		"  F             Favorites only\n" +
		"  c             Collection filter mode\n" +
		"  ←/→, h/l     Move between collections\n" +
		"  space/enter   Toggle collection\n" +
		"  esc, c        Exit filter mode\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	app.send = p.Send
	_, err := p.Run()
	return err
}
