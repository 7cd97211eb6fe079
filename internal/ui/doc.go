// Package ui implements the interactive reading tracker using bubbletea's Elm architecture.
//
// The TUI moves between a handful of views:
//  1. [LoginView] / [RegisterView] : Authenticate against the backend
//  2. [LibraryView] : Browse the catalog, searching on every keystroke
//  3. [DetailView] : One book with its reading progress bar
//  4. [FormView] : Any [FormSpec] (add/edit book, progress, goal, review)
//  5. [ConfirmView] : Confirm deleting a book
//  6. [GoalsView], [ReviewsView], [DashboardView] : Goal progress, reviews and stats
//
// Each request runs as a [tea.Cmd] and reports back through the Msg union type. Only one request
// is in flight at a time; keys that would start another are ignored until it returns. Every
// view change bumps a sequence number and results tagged with an older one are dropped.
package ui
