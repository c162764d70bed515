package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/farefinder/internal/flights"
	"github.com/five82/farefinder/internal/prefs"
	"github.com/five82/farefinder/internal/search"
	"github.com/five82/farefinder/internal/state"
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Client       flights.Service
	Store        *state.Store
	Logger       *slog.Logger
	Prefs        prefs.Prefs
	PrefsPath    string
	PageSize     int
	FetchTimeout time.Duration
	LogPath      string
	Start        Location
	Now          func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	client       flights.Service
	store        *state.Store
	logger       *slog.Logger
	prefs        prefs.Prefs
	prefsPath    string
	pageSize     int
	fetchTimeout time.Duration
	logPath      string

	// UI state
	keys    keyMap
	theme   Theme
	width   int
	height  int
	ready   bool
	spinner spinner.Model
	history history

	// Landing page
	form searchForm

	// Results page
	criteria        search.Criteria
	snapshot        state.Snapshot
	results         resultsState
	resultsViewport viewport.Model

	// Overlays
	modal     Modal
	detailSeq uint64

	initCmd tea.Cmd
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = search.DefaultPageSize
	}
	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	themeName := opts.Prefs.Theme
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:             ctx,
		client:          opts.Client,
		store:           store,
		logger:          logger,
		prefs:           opts.Prefs,
		prefsPath:       opts.PrefsPath,
		pageSize:        pageSize,
		fetchTimeout:    fetchTimeout,
		logPath:         opts.LogPath,
		keys:            DefaultKeyMap(),
		theme:           GetTheme(themeName),
		spinner:         sp,
		history:         newHistory(opts.Start),
		form:            newSearchForm(opts.Now, opts.Prefs.RecentSearches),
		resultsViewport: viewport.New(0, 0),
	}
	if opts.Start.Route == RouteResults {
		if c, err := m.form.criteriaFor(opts.Start.Query); err == nil {
			m.form.seed(c)
		}
		m.initCmd = m.startSearch()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initCmd, textinput.Blink)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateResultsViewport()
		m.ensureSelectedVisible()
		return m, m.updateModal(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case searchResultMsg:
		m.handleSearchResult(msg)
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.snapshot.Phase == state.PhaseLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.updateModal(msg))
		return m, tea.Batch(cmds...)

	case detailLoadedMsg, diagnosticsLoadedMsg:
		return m, m.updateModal(msg)
	}

	// Cursor blink and other input messages belong to the form.
	if m.history.current().Route == RouteLanding && m.modal == nil {
		var cmd tea.Cmd
		m.form, cmd = m.form.updateInput(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.modal != nil {
		return placeModal(m.modal.Box(m.theme, m.width, m.height), m.theme, m.width, m.height)
	}

	if m.history.current().Route == RouteResults {
		return m.renderResults()
	}
	return m.renderLanding()
}

// renderLanding renders the search form page.
func (m Model) renderLanding() string {
	body := lipgloss.Place(m.width, max(m.height-2, 1), lipgloss.Center, lipgloss.Center,
		m.form.View(m.theme, m.width),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderCommandBar())
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.modal != nil {
		return m, m.updateModal(msg)
	}

	// Printable keys go to a focused text input.
	typing := m.history.current().Route == RouteLanding && m.form.editingText()
	if !typing {
		switch {
		case key.Matches(msg, m.keys.Help):
			m.modal = helpModal{keys: m.keys}
			return m, nil
		case key.Matches(msg, m.keys.CycleTheme):
			m.cycleTheme()
			return m, nil
		case key.Matches(msg, m.keys.Diagnostics):
			modal, cmd := newDiagnostics(m.logPath, m.theme, m.width, m.height)
			m.modal = modal
			return m, cmd
		}
	}

	if m.history.current().Route == RouteResults {
		return m.handleResultsKey(msg)
	}
	return m.handleLandingKey(msg)
}

// handleLandingKey processes keys on the search form.
func (m Model) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		return m, m.back()
	}
	form, cmd, submitted := m.form.Update(msg, m.keys)
	m.form = form
	if submitted != nil {
		return m, tea.Batch(cmd, m.submit(*submitted))
	}
	return m, cmd
}

// handleMouse closes a modal on an outside click, otherwise routes the
// event to the modal or the results list.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		box := m.modal.Box(m.theme, m.width, m.height)
		if clickedOutside(msg, box, m.width, m.height) {
			m.closeModal()
			return m, nil
		}
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m, nil
		}
		return m, m.updateModal(msg)
	}
	if m.history.current().Route == RouteResults {
		return m.handleResultsMouse(msg)
	}
	return m, nil
}

// updateModal forwards msg to the open modal, if any.
func (m *Model) updateModal(msg tea.Msg) tea.Cmd {
	if m.modal == nil {
		return nil
	}
	next, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.closeModal()
		return cmd
	}
	m.modal = next
	return cmd
}

func (m *Model) closeModal() {
	m.modal = nil
}

// openDetail shows the detail modal for id and starts its fetch.
func (m *Model) openDetail(id string) tea.Cmd {
	m.detailSeq++
	seq := m.detailSeq
	m.logger.Debug("flight detail requested", "flight_id", id, "seq", seq)
	fetch := fetchDetailCmd(m.ctx, m.client, m.fetchTimeout, m.logger, seq, id)
	modal, cmd := newDetailModal(seq, id, m.theme, m.width, m.height, fetch)
	m.modal = modal
	return cmd
}

// submit remembers a valid search and navigates to its results.
func (m *Model) submit(c search.Criteria) tea.Cmd {
	values := search.Encode(c)
	m.prefs.RememberSearch(values.Encode())
	m.form.recents = m.prefs.RecentSearches
	m.savePrefs()
	return m.navigate(Results(values))
}

// navigate pushes loc and enters it.
func (m *Model) navigate(loc Location) tea.Cmd {
	m.history.push(loc)
	return m.enter()
}

// back returns to the previous location, if any.
func (m *Model) back() tea.Cmd {
	if _, ok := m.history.back(); !ok {
		return nil
	}
	return m.enter()
}

// enter sets up the page for the current location.
func (m *Model) enter() tea.Cmd {
	if m.history.current().Route == RouteResults {
		m.results = resultsState{}
		return m.startSearch()
	}
	m.store.Reset()
	m.snapshot = state.Snapshot{}
	m.updateResultsViewport()
	return m.form.focusCurrent()
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.savePrefs()
	m.updateResultsViewport()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
		opts.Context = ctx
	}
	m := New(opts)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
