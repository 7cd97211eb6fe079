// Package models defines the data exchanged with the reading-tracker API and the
// small amount of reading-state logic that lives on the client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs matching the API's JSON bodies
//   - [Book], [BookInput] : catalog entries and the payload to create or edit one
//   - [Progress], [ProgressUpdate] : reading position and status for a book
//   - [GoalInput], [GoalProgress] : reading goals and their backend-computed progress
//   - [Review], [ReviewInput] : ratings and comments
//   - [DashboardStats] : aggregate numbers for the dashboard
//   - [RegisterRequest], [LoginRequest], [LoginResponse], [User] : account flows
//
// 2. Client-side state: values the forms and trackers reason about
//   - [ReadingState] : tagged union of [WantToRead], [CurrentlyReading] and [Finished]
//   - [Period] : a yearly or monthly goal key
//   - [LibraryEntry] : a book joined with its progress for export
package models
