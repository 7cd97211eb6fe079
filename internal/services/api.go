package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
)

// decodeItem accepts either {"data": {...}} or the bare object.
func decodeItem[T any](raw json.RawMessage) (*T, error) {
	var envelope struct {
		Data *T `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}

	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &item, nil
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodPost, path: "/register", body: req, out: &raw, anon: true, fallback: "Registration failed"}); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return &models.User{Name: req.Name, Email: req.Email}, nil
	}
	return decodeItem[models.User](raw)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/login", body: req, out: &resp, anon: true, fallback: "Login failed"}); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: no token in login response", shared.ErrAuthFailed)
	}
	return &resp, nil
}

// ListBooks returns every book in the user's library.
func (c *Client) ListBooks(ctx context.Context) ([]models.Book, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: "/books", out: &raw, fallback: "Failed to load books"}); err != nil {
		return nil, err
	}
	return decodeList[models.Book](raw)
}

// GetBook returns one book.
func (c *Client) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/books/%d", id), out: &raw, fallback: "Failed to load book"}); err != nil {
		return nil, err
	}
	return decodeItem[models.Book](raw)
}

// CreateBook adds a book and returns it as stored.
func (c *Client) CreateBook(ctx context.Context, in models.BookInput) (*models.Book, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodPost, path: "/books", body: in, out: &raw, fallback: "Failed to add book"}); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		b := models.Book{}
		b.Apply(in)
		return &b, nil
	}
	return decodeItem[models.Book](raw)
}

// UpdateBook replaces a book's editable fields.
func (c *Client) UpdateBook(ctx context.Context, id int64, in models.BookInput) error {
	return c.do(ctx, call{method: http.MethodPut, path: fmt.Sprintf("/books/%d", id), body: in, fallback: "Failed to update book"})
}

// DeleteBook removes a book.
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/books/%d", id), fallback: "Failed to delete book"})
}

// SearchBooks matches the user's books by title or author.
func (c *Client) SearchBooks(ctx context.Context, query string) ([]models.Book, error) {
	var raw json.RawMessage
	path := "/books/search?q=" + url.QueryEscape(strings.TrimSpace(query))
	if err := c.do(ctx, call{method: http.MethodGet, path: path, out: &raw, fallback: "Search failed"}); err != nil {
		return nil, err
	}
	return decodeList[models.Book](raw)
}

// GetProgress returns the reading progress of a book.
func (c *Client) GetProgress(ctx context.Context, bookID int64) (*models.Progress, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/books/%d/progress", bookID), out: &raw, fallback: "Failed to load progress"}); err != nil {
		return nil, err
	}
	p, err := decodeItem[models.Progress](raw)
	if err != nil {
		return nil, err
	}
	if p.BookID == 0 {
		p.BookID = bookID
	}
	return p, nil
}

// UpdateProgress replaces the reading progress of a book.
func (c *Client) UpdateProgress(ctx context.Context, bookID int64, update models.ProgressUpdate) error {
	return c.do(ctx, call{method: http.MethodPut, path: fmt.Sprintf("/books/%d/progress", bookID), body: update, fallback: "Failed to update progress"})
}

// ListReviews returns the reviews for a book, including other readers' reviews of the same ISBN.
func (c *Client) ListReviews(ctx context.Context, bookID int64) ([]models.Review, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/books/%d/reviews", bookID), out: &raw, fallback: "Failed to load reviews"}); err != nil {
		return nil, err
	}
	return decodeList[models.Review](raw)
}

// CreateReview posts a review for a book.
func (c *Client) CreateReview(ctx context.Context, bookID int64, in models.ReviewInput) error {
	return c.do(ctx, call{method: http.MethodPost, path: fmt.Sprintf("/books/%d/reviews", bookID), body: in, fallback: "Failed to submit review"})
}

// SetGoal creates or replaces the goal for a period.
func (c *Client) SetGoal(ctx context.Context, in models.GoalInput) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/goals", body: in, fallback: "Failed to set goal"})
}

// GoalProgress returns the goal for a period. A period without a goal is a
// 404 [*APIError].
func (c *Client) GoalProgress(ctx context.Context, p models.Period) (*models.GoalProgress, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: p.Path(), out: &raw, fallback: "Failed to load goal"}); err != nil {
		return nil, err
	}
	return decodeItem[models.GoalProgress](raw)
}

// Dashboard returns aggregate reading statistics.
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: "/dashboard", out: &raw, fallback: "Failed to load dashboard"}); err != nil {
		return nil, err
	}
	return decodeItem[models.DashboardStats](raw)
}
