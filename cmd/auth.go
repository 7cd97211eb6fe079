package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/urfave/cli/v3"
)

// flagOrPrompt returns the flag value, asking on the terminal when it is empty.
func (r *Runner) flagOrPrompt(cmd *cli.Command, name, label string) (string, error) {
	if v := strings.TrimSpace(cmd.String(name)); v != "" {
		return v, nil
	}
	return r.prompt(label)
}

// AuthRegister creates an account. It does not log in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	var req models.RegisterRequest
	var err error
	if req.Name, err = r.flagOrPrompt(cmd, "name", "Name: "); err != nil {
		return err
	}
	if req.Email, err = r.flagOrPrompt(cmd, "email", "Email: "); err != nil {
		return err
	}
	if req.Password, err = r.flagOrPrompt(cmd, "password", "Password: "); err != nil {
		return err
	}
	if err := r.validator.Validate(req); err != nil {
		return err
	}

	client, err := r.api()
	if err != nil {
		return err
	}
	user, err := client.Register(ctx, req)
	if err != nil {
		return err
	}
	r.logger.Info("account created", "email", user.Email)

	r.writePlain("✓ Account created for %s\n", req.Email)
	return r.writePlain("Run 'readtrack auth login' to start a session\n")
}

// AuthLogin exchanges credentials for a token and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	var req models.LoginRequest
	var err error
	if req.Email, err = r.flagOrPrompt(cmd, "email", "Email: "); err != nil {
		return err
	}
	if req.Password, err = r.flagOrPrompt(cmd, "password", "Password: "); err != nil {
		return err
	}
	if err := r.validator.Validate(req); err != nil {
		return err
	}

	client, err := r.api()
	if err != nil {
		return err
	}
	resp, err := client.Login(ctx, req)
	if err != nil {
		return err
	}
	if err := r.session.Save(resp.Token); err != nil {
		return err
	}

	r.logger.Info("logged in", "email", req.Email)
	return r.writePlain("✓ Logged in as %s\n", req.Email)
}

// AuthLogout clears the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.openSession()
	if err != nil {
		return err
	}
	if err := sess.Clear(); err != nil {
		return err
	}
	r.writePlain("✓ Logged out\n")
	return r.writePlain("Run 'readtrack auth login' to log in again\n")
}

type authStatus struct {
	Authenticated bool   `json:"authenticated"`
	UserID        int64  `json:"user_id,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	Expired       bool   `json:"expired"`
	BaseURL       string `json:"base_url"`
}

// AuthStatus reports whether a token is stored and when it expires. The
// token is decoded locally; nothing is sent to the server.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.openSession()
	if err != nil {
		return err
	}

	status := authStatus{BaseURL: r.cfg().API.BaseURL}
	claims, err := sess.Claims()
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
	case err != nil:
		return fmt.Errorf("stored token is unreadable: %w", err)
	default:
		status.Authenticated = true
		status.UserID = claims.UserID
		status.Expired = claims.Expired(r.now())
		if !claims.ExpiresAt.IsZero() {
			status.ExpiresAt = claims.ExpiresAt.UTC().Format("2006-01-02 15:04 MST")
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}

	r.writePlain("API: %s\n", status.BaseURL)
	switch {
	case !status.Authenticated:
		r.writePlain("Authentication: ✗ Not logged in\n")
		return r.writePlain("Run 'readtrack auth login' to log in\n")
	case status.Expired:
		r.writePlain("Authentication: ✗ Session expired at %s\n", status.ExpiresAt)
		return r.writePlain("Run 'readtrack auth login' to log in again\n")
	}
	r.writePlain("Authentication: ✓ Logged in (user %d)\n", status.UserID)
	if status.ExpiresAt != "" {
		r.writePlain("Expires: %s\n", status.ExpiresAt)
	}
	return nil
}
