package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/tasks"
	"github.com/desertthunder/readtrack/internal/validation"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	RegisterView
	LibraryView
	DetailView
	FormView
	ConfirmView
	GoalsView
	ReviewsView
	DashboardView
)

// AuthAPI registers accounts and issues tokens.
type AuthAPI interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// DashboardAPI loads reading statistics.
type DashboardAPI interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

// TokenStore keeps the bearer token. [session.Session] satisfies it.
type TokenStore interface {
	Authenticated() bool
	Save(token string) error
}

// Deps are the collaborators the TUI drives.
type Deps struct {
	Catalog   *tasks.Catalog
	Progress  *tasks.ProgressTracker
	Goals     *tasks.GoalTracker
	Reviews   *tasks.ReviewCollector
	Dashboard DashboardAPI
	Auth      AuthAPI
	Session   TokenStore
	Validator *validation.Validator
	Logger    *log.Logger
	Now       func() time.Time
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	deps   Deps
	logger *log.Logger

	view  ViewState
	back  ViewState
	seq   int
	busy  bool
	stale bool

	width  int
	height int

	library list.Model
	search  textinput.Model
	books   []models.Book

	book     *models.Book
	progress *models.Progress
	bar      progress.Model

	form    *Form
	period  models.Period
	goal    *models.GoalProgress
	reviews []models.Review
	stats   *models.DashboardStats

	notice string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model. It starts on the library when the
// session already holds a token and on the login form otherwise.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Validator == nil {
		deps.Validator = validation.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &Model{
		ctx:    ctx,
		deps:   deps,
		logger: logger,
		search: newInput("title, author or ISBN"),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		period: deps.Goals.Selected(),
		help:   help.New(),
		keys:   newKeyMap(),
	}
	m.search.Prompt = "Search: "

	m.library = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	m.library.Title = "Library"
	m.library.SetFilteringEnabled(false)
	m.library.SetShowHelp(false)

	if deps.Session != nil && deps.Session.Authenticated() {
		m.view = LibraryView
		m.stale = true
	} else {
		m.view = LoginView
		m.form = NewForm(m.loginForm())
	}
	return m
}

// Init loads the first view.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.library.SetSize(msg.Width-4, msg.Height-8)
		m.bar.Width = min(max(msg.Width-20, 10), 60)
		return m, nil

	case Msg:
		return m, m.receive(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

// show switches views. Results of requests started under the previous view
// are dropped from here on.
func (m *Model) show(v ViewState) {
	m.seq++
	m.view = v
	m.err = nil
	m.notice = ""
}

// navigate shows v and loads its data.
func (m *Model) navigate(v ViewState) tea.Cmd {
	m.show(v)
	m.stale = true
	return m.load()
}

func (m *Model) openForm(spec FormSpec) tea.Cmd {
	m.back = m.view
	m.show(FormView)
	m.form = NewForm(spec)
	return nil
}

// load fetches the data of the current view once no request is running.
func (m *Model) load() tea.Cmd {
	if !m.stale || m.busy {
		return nil
	}
	m.stale = false

	switch m.view {
	case LibraryView:
		query := strings.TrimSpace(m.search.Value())
		return m.request(MsgBooksLoaded, func(ctx context.Context) (any, error) {
			books, err := m.deps.Catalog.Search(ctx, query)
			return booksResult{query: query, books: books}, err
		})
	case DetailView:
		if m.book == nil {
			return nil
		}
		book := *m.book
		return m.request(MsgDetailLoaded, func(ctx context.Context) (any, error) {
			p, err := m.deps.Progress.Load(ctx, book)
			return &p, err
		})
	case GoalsView:
		period := m.period
		return m.request(MsgGoalLoaded, func(ctx context.Context) (any, error) {
			return m.deps.Goals.Select(ctx, period)
		})
	case ReviewsView:
		if m.book == nil {
			return nil
		}
		id := m.book.ID
		return m.request(MsgReviewsLoaded, func(ctx context.Context) (any, error) {
			return m.deps.Reviews.List(ctx, id)
		})
	case DashboardView:
		return m.request(MsgDashboardLoaded, func(ctx context.Context) (any, error) {
			return m.deps.Dashboard.Dashboard(ctx)
		})
	}
	return nil
}

func (m *Model) receive(msg Msg) tea.Cmd {
	m.busy = false
	if msg.seq != m.seq {
		m.logger.Debug("dropping stale result", "kind", msg.kind, "seq", msg.seq, "current", m.seq)
		return m.load()
	}
	if m.form != nil {
		m.form.pending = false
	}

	var cmd tea.Cmd
	switch msg.kind {
	case MsgAuthenticated:
		if msg.err != nil {
			m.form.SetError(msg.err)
			break
		}
		cmd = m.navigate(LibraryView)

	case MsgRegistered:
		if msg.err != nil {
			m.form.SetError(msg.err)
			break
		}
		m.show(LoginView)
		m.form = NewForm(m.loginForm())
		m.notice = "Account created. Log in to continue."

	case MsgBooksLoaded:
		res, _ := msg.data.(booksResult)
		if res.query != strings.TrimSpace(m.search.Value()) {
			break
		}
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.books = res.books
		m.library.SetItems(bookItems(res.books))

	case MsgDetailLoaded:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.progress, _ = msg.data.(*models.Progress)

	case MsgSubmitted:
		if msg.err != nil {
			m.form.SetError(msg.err)
			break
		}
		if m.form.spec.Done != nil {
			cmd = m.form.spec.Done()
		}

	case MsgDeleted:
		if msg.err != nil {
			m.show(DetailView)
			m.err = msg.err
			break
		}
		title := m.book.Title
		m.book, m.progress = nil, nil
		cmd = m.navigate(LibraryView)
		m.notice = fmt.Sprintf("Removed %q", title)

	case MsgGoalLoaded:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.goal, _ = msg.data.(*models.GoalProgress)

	case MsgReviewsLoaded:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.reviews, _ = msg.data.([]models.Review)

	case MsgDashboardLoaded:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.stats, _ = msg.data.(*models.DashboardStats)
	}

	if errors.Is(msg.err, shared.ErrNotAuthenticated) && m.view != LoginView {
		m.show(LoginView)
		m.form = NewForm(m.loginForm())
		m.err = msg.err
	}
	return tea.Batch(cmd, m.load())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.view {
	case LoginView, RegisterView:
		return m.handleAuthKeys(msg)
	case LibraryView:
		return m.handleLibraryKeys(msg)
	case DetailView:
		return m.handleDetailKeys(msg)
	case FormView:
		return m.handleFormKeys(msg)
	case ConfirmView:
		return m.handleConfirmKeys(msg)
	case GoalsView:
		return m.handleGoalsKeys(msg)
	case ReviewsView:
		return m.handleReviewsKeys(msg)
	case DashboardView:
		return m.handleDashboardKeys(msg)
	}
	return nil
}

func (m *Model) handleAuthKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.register) && m.view == LoginView:
		m.show(RegisterView)
		m.form = NewForm(m.registerForm())
		return nil
	case key.Matches(msg, m.keys.back) && m.view == RegisterView:
		m.show(LoginView)
		m.form = NewForm(m.loginForm())
		return nil
	}

	kind := MsgAuthenticated
	if m.view == RegisterView {
		kind = MsgRegistered
	}
	return m.submitForm(msg, kind)
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.back) {
		return m.navigate(m.back)
	}
	return m.submitForm(msg, MsgSubmitted)
}

func (m *Model) submitForm(msg tea.KeyMsg, kind MsgKind) tea.Cmd {
	submit, cmd := m.form.Update(msg)
	if !submit || m.busy {
		return cmd
	}

	form := m.form
	form.pending = true
	values := form.Values()
	return tea.Batch(cmd, m.request(kind, func(ctx context.Context) (any, error) {
		return nil, form.spec.Submit(ctx, values)
	}))
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) tea.Cmd {
	if m.search.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.search.Blur()
			return nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.stale = true
			return tea.Batch(cmd, m.load())
		}
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.search):
		return m.search.Focus()
	case key.Matches(msg, m.keys.add):
		return m.openForm(m.bookForm(nil))
	case key.Matches(msg, m.keys.goals):
		return m.navigate(GoalsView)
	case key.Matches(msg, m.keys.dashboard):
		return m.navigate(DashboardView)
	case key.Matches(msg, m.keys.refresh):
		m.stale = true
		return m.load()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.library.SelectedItem().(bookItem); ok {
			book := item.book
			m.book, m.progress = &book, book.Progress
			return m.navigate(DetailView)
		}
		return nil
	}

	var cmd tea.Cmd
	m.library, cmd = m.library.Update(msg)
	return cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.back):
		return m.navigate(LibraryView)
	case key.Matches(msg, m.keys.edit):
		return m.openForm(m.bookForm(m.book))
	case key.Matches(msg, m.keys.progress):
		if m.progress == nil {
			return nil
		}
		return m.openForm(m.progressForm(*m.book, *m.progress))
	case key.Matches(msg, m.keys.remove):
		m.show(ConfirmView)
		return nil
	case key.Matches(msg, m.keys.reviews):
		return m.navigate(ReviewsView)
	}
	return nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.yes):
		id := m.book.ID
		return m.request(MsgDeleted, func(ctx context.Context) (any, error) {
			return id, m.deps.Catalog.Delete(ctx, id, tasks.Always)
		})
	case key.Matches(msg, m.keys.no):
		if m.busy {
			return nil
		}
		m.show(DetailView)
		return nil
	}
	return nil
}

func (m *Model) handleGoalsKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.back):
		return m.navigate(LibraryView)
	case key.Matches(msg, m.keys.prev):
		return m.selectPeriod(m.period.Prev())
	case key.Matches(msg, m.keys.next):
		return m.selectPeriod(m.period.Next())
	case key.Matches(msg, m.keys.monthly):
		if m.period.IsMonthly() {
			return m.selectPeriod(models.Yearly(m.period.Year))
		}
		return m.selectPeriod(models.Monthly(m.period.Year, int(m.deps.Now().Month())))
	case key.Matches(msg, m.keys.edit), key.Matches(msg, m.keys.add):
		return m.openForm(m.goalForm(m.period, m.goal))
	}
	return nil
}

// selectPeriod changes the goal period and refetches it. The change is
// ignored while a request is running.
func (m *Model) selectPeriod(p models.Period) tea.Cmd {
	if m.busy {
		return nil
	}
	m.period = p
	m.goal = nil
	return m.navigate(GoalsView)
}

func (m *Model) handleReviewsKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.back):
		return m.navigate(DetailView)
	case key.Matches(msg, m.keys.add):
		if m.busy {
			return nil
		}
		if !m.deps.Reviews.CanReview(m.book.ID) {
			m.err = shared.ErrAlreadyReviewed
			return nil
		}
		return m.openForm(m.reviewForm(*m.book))
	}
	return nil
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.back):
		return m.navigate(LibraryView)
	case key.Matches(msg, m.keys.refresh):
		return m.navigate(DashboardView)
	}
	return nil
}
