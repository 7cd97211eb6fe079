package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/readtrack/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
//
// seq is the view sequence number the request was started under.
type Msg struct {
	kind MsgKind
	seq  int
	data any
	err  error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgAuthenticated MsgKind = iota
	MsgRegistered
	MsgBooksLoaded
	MsgDetailLoaded
	MsgSubmitted
	MsgDeleted
	MsgGoalLoaded
	MsgReviewsLoaded
	MsgDashboardLoaded
)

func (k MsgKind) String() string {
	switch k {
	case MsgAuthenticated:
		return "authenticated"
	case MsgRegistered:
		return "registered"
	case MsgBooksLoaded:
		return "books_loaded"
	case MsgDetailLoaded:
		return "detail_loaded"
	case MsgSubmitted:
		return "submitted"
	case MsgDeleted:
		return "deleted"
	case MsgGoalLoaded:
		return "goal_loaded"
	case MsgReviewsLoaded:
		return "reviews_loaded"
	case MsgDashboardLoaded:
		return "dashboard_loaded"
	default:
		return "unknown"
	}
}

// booksResult is the payload of [MsgBooksLoaded]
type booksResult struct {
	query string
	books []models.Book
}

// request starts fn as a [tea.Cmd] unless another request is still running,
// in which case it returns nil and the key that triggered it is ignored.
func (m *Model) request(kind MsgKind, fn func(ctx context.Context) (any, error)) tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true
	ctx, seq := m.ctx, m.seq
	m.logger.Debug("request started", "kind", kind, "seq", seq)
	return func() tea.Msg {
		data, err := fn(ctx)
		return Msg{kind: kind, seq: seq, data: data, err: err}
	}
}
