package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/services"
	"github.com/desertthunder/readtrack/internal/session"
	"github.com/desertthunder/readtrack/internal/tasks"
	tu "github.com/desertthunder/readtrack/internal/testing"
	"github.com/desertthunder/readtrack/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	m    *Model
	stub *tu.StubBackend
	sess *session.Session
}

func newHarness(t *testing.T, loggedIn bool) *harness {
	t.Helper()
	stub := tu.NewStubBackend(t)
	sess := session.New(session.NewMemoryStore())
	if loggedIn {
		require.NoError(t, sess.Save(stub.Login(t, "Ada", "ada@example.com")))
	}

	now := func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	v := validation.NewWithClock(now)
	client := services.NewClient(services.ClientOpts{BaseURL: stub.BaseURL, Tokens: sess, HTTPClient: stub.Server.Client()})

	m := NewModel(context.Background(), Deps{
		Catalog:   tasks.NewCatalog(client, v),
		Progress:  tasks.NewProgressTracker(client),
		Goals:     tasks.NewGoalTracker(client, v, models.Yearly(2025)),
		Reviews:   tasks.NewReviewCollector(client, v, sess),
		Dashboard: client,
		Auth:      client,
		Session:   sess,
		Validator: v,
		Now:       now,
	})
	h := &harness{m: m, stub: stub, sess: sess}
	h.run(m.Init())
	return h
}

// run executes cmd and feeds the messages it produces back into the model.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case Msg:
		_, next := h.m.Update(msg)
		h.run(next)
	}
}

func (h *harness) key(s string) tea.Cmd {
	_, cmd := h.m.Update(press(s))
	return cmd
}

func (h *harness) keys(keys ...string) {
	for _, k := range keys {
		h.run(h.key(k))
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.run(h.key(string(r)))
	}
}

func (h *harness) addBook(t *testing.T, title, author, pages string) {
	t.Helper()
	h.keys("a")
	require.Equal(t, FormView, h.m.view)
	h.typeText(title)
	h.keys("tab")
	h.typeText(author)
	h.keys("tab", "tab", "tab", "tab")
	h.typeText(pages)
	h.keys("ctrl+s")
	require.Equal(t, LibraryView, h.m.view, "form error: %v", h.m.form.Err())
}

func (h *harness) open(t *testing.T, title string) {
	t.Helper()
	for i, item := range h.m.library.Items() {
		if item.(bookItem).book.Title == title {
			h.m.library.Select(i)
			h.keys("enter")
			require.Equal(t, DetailView, h.m.view)
			return
		}
	}
	t.Fatalf("book %q not in library", title)
}

func TestModel(t *testing.T) {
	t.Run("login", func(t *testing.T) {
		h := newHarness(t, false)
		h.stub.Login(t, "Ada", "ada@example.com")
		require.Equal(t, LoginView, h.m.view)

		h.typeText("ada@example.com")
		h.keys("tab")
		h.typeText("wrong-password")
		h.keys("ctrl+s")
		assert.Equal(t, LoginView, h.m.view)
		assert.EqualError(t, h.m.form.Err(), "Invalid email or password")

		h.m.form = NewForm(h.m.loginForm())
		h.typeText("ada@example.com")
		h.keys("tab")
		h.typeText("password1")
		h.keys("ctrl+s")
		assert.Equal(t, LibraryView, h.m.view)
		assert.True(t, h.sess.Authenticated())
	})

	t.Run("register returns to login", func(t *testing.T) {
		h := newHarness(t, false)
		h.keys("ctrl+n")
		require.Equal(t, RegisterView, h.m.view)

		h.typeText("Grace")
		h.keys("tab")
		h.typeText("grace@example.com")
		h.keys("tab")
		h.typeText("secret1")
		h.keys("ctrl+s")

		assert.Equal(t, LoginView, h.m.view)
		assert.Contains(t, h.m.View(), "Account created")
	})

	t.Run("numeric title never reaches the backend", func(t *testing.T) {
		h := newHarness(t, true)
		before := h.stub.Requests()

		h.keys("a")
		h.typeText("12345")
		h.keys("tab")
		h.typeText("Someone")
		h.keys("tab", "tab", "tab", "tab")
		h.typeText("100")
		h.keys("ctrl+s")

		assert.Equal(t, FormView, h.m.view)
		assert.Equal(t, "cannot be only numbers.", h.m.form.FieldError("title"))
		assert.Equal(t, before, h.stub.Requests())
	})

	t.Run("repeated submit is ignored while pending", func(t *testing.T) {
		h := newHarness(t, true)
		h.keys("a")
		h.typeText("Dune")
		h.keys("tab")
		h.typeText("Frank Herbert")
		h.keys("tab", "tab", "tab", "tab")
		h.typeText("412")

		first := h.key("ctrl+s")
		second := h.key("ctrl+s")
		require.True(t, h.m.form.pending)
		h.run(first)
		h.run(second)

		assert.Equal(t, LibraryView, h.m.view)
		assert.Len(t, h.m.library.Items(), 1)
	})

	t.Run("stale results are dropped", func(t *testing.T) {
		h := newHarness(t, true)
		h.addBook(t, "Dune", "Frank Herbert", "412")
		h.open(t, "Dune")

		h.m.Update(Msg{kind: MsgDetailLoaded, seq: h.m.seq - 1, err: errors.New("boom")})
		assert.NoError(t, h.m.err)
		assert.Equal(t, DetailView, h.m.view)
	})

	t.Run("leaving a view drops its pending result", func(t *testing.T) {
		h := newHarness(t, true)
		h.addBook(t, "Dune", "Frank Herbert", "412")

		cmd := h.key("s")
		require.Equal(t, DashboardView, h.m.view)
		h.key("esc")
		require.Equal(t, LibraryView, h.m.view)
		h.run(cmd)

		assert.Nil(t, h.m.stats)
		assert.Len(t, h.m.library.Items(), 1)
	})

	t.Run("search on every keystroke", func(t *testing.T) {
		h := newHarness(t, true)
		h.addBook(t, "Dune", "Frank Herbert", "412")
		h.addBook(t, "Emma", "Jane Austen", "474")

		h.keys("/")
		var cmds []tea.Cmd
		for _, r := range "dun" {
			cmds = append(cmds, h.key(string(r)))
		}
		for _, c := range cmds {
			h.run(c)
		}

		items := h.m.library.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "Dune", items[0].(bookItem).book.Title)

		h.keys("backspace", "backspace", "backspace")
		assert.Len(t, h.m.library.Items(), 2)
	})

	t.Run("progress form applies status rules", func(t *testing.T) {
		h := newHarness(t, true)
		h.addBook(t, "Dune", "Frank Herbert", "300")
		h.open(t, "Dune")
		require.NotNil(t, h.m.progress)

		h.keys("p")
		require.Equal(t, FormView, h.m.view)
		h.keys("right", "right")
		assert.Equal(t, "Finished", h.m.form.Values()["status"])
		assert.Equal(t, "300", h.m.form.Values()["current_page"])

		h.keys("left")
		h.keys("tab", "backspace", "backspace", "backspace")
		h.typeText("300")
		h.keys("ctrl+s")
		assert.Equal(t, FormView, h.m.view)
		assert.ErrorIs(t, h.m.form.Err(), tasks.ErrOnLastPage)

		h.keys("backspace", "backspace", "backspace")
		h.typeText("150")
		h.keys("ctrl+s")
		require.Equal(t, DetailView, h.m.view)
		assert.Equal(t, models.StatusReading, h.m.progress.Status)
		assert.Equal(t, 150, h.m.progress.CurrentPage)
		assert.Contains(t, h.m.View(), "50%")
	})

	t.Run("delete asks first", func(t *testing.T) {
		h := newHarness(t, true)
		h.addBook(t, "Dune", "Frank Herbert", "412")
		h.open(t, "Dune")
		before := h.stub.Requests()

		h.keys("d")
		require.Equal(t, ConfirmView, h.m.view)
		assert.Contains(t, h.m.View(), `Remove "Dune" from your library?`)
		h.keys("n")
		assert.Equal(t, DetailView, h.m.view)
		assert.Equal(t, before, h.stub.Requests())

		h.keys("d", "y")
		assert.Equal(t, LibraryView, h.m.view)
		assert.Empty(t, h.m.library.Items())
	})

	t.Run("goals", func(t *testing.T) {
		h := newHarness(t, true)
		h.keys("g")
		require.Equal(t, GoalsView, h.m.view)
		assert.Nil(t, h.m.goal)
		assert.Contains(t, h.m.View(), "No goal set")

		h.keys("e")
		h.keys("tab", "tab")
		h.typeText("0")
		h.keys("ctrl+s")
		assert.Equal(t, FormView, h.m.view)
		assert.Equal(t, "must be at least 1", h.m.form.FieldError("target_books"))

		h.keys("backspace")
		h.typeText("12")
		h.keys("ctrl+s")
		require.Equal(t, GoalsView, h.m.view)
		require.NotNil(t, h.m.goal)
		assert.Equal(t, 12, h.m.goal.Target)

		h.keys("m")
		assert.Equal(t, models.Monthly(2025, 3), h.m.period)
		assert.Nil(t, h.m.goal)
	})

	t.Run("one review per book", func(t *testing.T) {
		h := newHarness(t, true)
		h.addBook(t, "Dune", "Frank Herbert", "412")
		h.open(t, "Dune")

		h.keys("r")
		require.Equal(t, ReviewsView, h.m.view)
		h.keys("a")
		require.Equal(t, FormView, h.m.view)
		h.keys("tab")
		h.typeText("A classic")
		h.keys("ctrl+s")

		require.Equal(t, ReviewsView, h.m.view)
		require.Len(t, h.m.reviews, 1)
		assert.Contains(t, h.m.View(), "★★★★★")

		h.keys("a")
		assert.Equal(t, ReviewsView, h.m.view)
		assert.Contains(t, h.m.View(), "already reviewed")
	})

	t.Run("dashboard", func(t *testing.T) {
		h := newHarness(t, true)
		h.addBook(t, "Dune", "Frank Herbert", "412")
		h.keys("s")
		require.NotNil(t, h.m.stats)
		assert.Equal(t, 1, h.m.stats.TotalBooks)
		assert.Contains(t, h.m.View(), "0.0")
	})
}
