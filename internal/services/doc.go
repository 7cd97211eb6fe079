// Package services implements the HTTP client for the reading-tracker REST API.
//
// [Client] exposes one method per endpoint. Authenticated requests get their
// bearer token from an [oauth2.TokenSource] (the session) through
// [oauth2.Transport]; login and register go out unauthenticated.
//
// Errors fall in two categories:
//   - [*APIError] : the server answered with a non-2xx status; Message is the
//     body's "error" field, or a per-operation fallback when it is missing
//   - [shared.ErrUnreachable] : the request never got a response
//
// Nothing is retried. Cancellation and deadlines come from the caller's context.
package services
