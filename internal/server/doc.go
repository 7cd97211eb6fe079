// Package server provides an in-memory implementation of the reading-tracker REST API.
//
// # Stub Backend
//
// [Stub] serves the same routes, JSON shapes and error bodies as the real
// backend under /api, so the client can be exercised without one. It backs the
// package tests of the client and is served by `readtrack dev stub` for local
// TUI work.
//
// Routing uses chi. Passwords are hashed with bcrypt and sessions are HS256
// JWTs carrying user_id and exp claims.
//
// # Error Bodies
//
// Every non-2xx response has the body {"error": "..."}; the client shows that
// message verbatim.
//
// # Middleware
//
// [Middleware] wraps handlers in the usual order: the first one added runs first.
// requireAuth resolves the bearer token to a user id stored on the request context.
//
// State lives in memory only and is lost when the process exits.
package server
