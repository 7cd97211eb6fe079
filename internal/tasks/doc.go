// Package tasks holds the client-side logic of readtrack: the components that
// sit between a form or list and the REST client.
//
// # Components
//
//  1. [Catalog] : the user's books
//     - Validates book input before anything is sent
//     - Removes deleted books locally without refetching
//     - Relists everything when a search query is blank
//
//  2. [ProgressTracker] and [ProgressForm] : reading progress
//     - Normalizes the page when the status changes
//     - Resolves a submitted form to a [models.ReadingState] or explains why it cannot
//
//  3. [GoalTracker] : yearly and monthly reading goals
//     - Fetches goal progress whenever the selected period changes
//     - Treats a missing goal as "no goal set" rather than an error
//
//  4. [ReviewCollector] : ratings and comments
//     - Allows one review per user per book
//
//  5. [Exporter] : library export
//     - Collects books and progress one request at a time
//
// # Progress Reporting
//
// Long operations report [ProgressUpdate] values on an optional channel.
// Sends never block: when the channel is full the update is dropped.
//
// Each component performs at most one request per call and never retries.
package tasks
