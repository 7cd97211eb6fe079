package server

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (s *Stub) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, taken := s.store.emails[req.Email]; taken {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	acct := &account{user: models.User{ID: s.store.nextID(), Name: req.Name, Email: req.Email}, hash: hash}
	s.store.accounts[acct.user.ID] = acct
	s.store.emails[req.Email] = acct.user.ID

	writeJSON(w, http.StatusCreated, acct.user)
}

func (s *Stub) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.store.mu.Lock()
	id, ok := s.store.emails[strings.ToLower(strings.TrimSpace(req.Email))]
	var acct *account
	if ok {
		acct = s.store.accounts[id]
	}
	s.store.mu.Unlock()

	if acct == nil || !checkPassword(acct.hash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.issueToken(acct.user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Message: "Login successful", Token: token})
}

func (s *Stub) handleListBooks(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	books := s.store.userBooks(userID(r.Context()))
	s.store.mu.Unlock()

	if books == nil {
		books = []models.Book{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": books})
}

func (s *Stub) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	books := s.store.search(userID(r.Context()), r.URL.Query().Get("q"))
	s.store.mu.Unlock()

	if books == nil {
		books = []models.Book{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": books})
}

func validBook(in models.BookInput) (string, bool) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Author) == "" {
		return "Title and author are required", false
	}
	if in.TotalPages <= 0 {
		return "Total pages must be greater than 0", false
	}
	return "", true
}

func (s *Stub) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var in models.BookInput
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := validBook(in); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	now := s.now()
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	book := &models.Book{ID: s.store.nextID(), UserID: userID(r.Context()), CreatedAt: now, UpdatedAt: now}
	book.Apply(in)
	s.store.books[book.ID] = book
	s.store.progress[book.ID] = &models.Progress{
		ID:          s.store.nextID(),
		BookID:      book.ID,
		Status:      models.StatusWantToRead,
		LastUpdated: now,
	}

	writeJSON(w, http.StatusCreated, s.store.withProgress(*book))
}

func (s *Stub) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	book, found := s.store.ownedBook(userID(r.Context()), id)
	if !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, s.store.withProgress(*book))
}

func (s *Stub) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID")
		return
	}
	var in models.BookInput
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := validBook(in); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	book, found := s.store.ownedBook(userID(r.Context()), id)
	if !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	book.Apply(in)
	book.UpdatedAt = s.now()
	if p := s.store.progress[id]; p != nil && p.CurrentPage > book.TotalPages {
		p.CurrentPage = book.TotalPages
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book updated successfully"})
}

func (s *Stub) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, found := s.store.ownedBook(userID(r.Context()), id); !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	s.store.deleteBook(id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted successfully"})
}

func (s *Stub) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, found := s.store.ownedBook(userID(r.Context()), id); !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	p, found := s.store.progress[id]
	if !found {
		writeJSON(w, http.StatusOK, models.Progress{BookID: id, Status: models.StatusWantToRead})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleUpdateProgress applies the backend's own normalization: unread books
// sit on page 0, a finished book sits on its last page and reaching the last
// page finishes the book.
func (s *Stub) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID")
		return
	}
	var req models.ProgressUpdate
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if req.CurrentPage < 0 {
		writeError(w, http.StatusBadRequest, "Current page cannot be negative")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	book, found := s.store.ownedBook(userID(r.Context()), id)
	if !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	if req.CurrentPage > book.TotalPages {
		writeError(w, http.StatusBadRequest, "Current page cannot exceed total pages")
		return
	}

	switch {
	case req.Status == models.StatusWantToRead:
		req.CurrentPage = 0
	case req.Status == models.StatusFinished:
		req.CurrentPage = book.TotalPages
	case req.CurrentPage == book.TotalPages:
		req.Status = models.StatusFinished
	}

	p, exists := s.store.progress[id]
	if !exists {
		p = &models.Progress{ID: s.store.nextID(), BookID: id}
		s.store.progress[id] = p
	}
	p.CurrentPage = req.CurrentPage
	p.Status = req.Status
	p.LastUpdated = s.now()

	writeJSON(w, http.StatusOK, p)
}

func (s *Stub) handleListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	book, found := s.store.ownedBook(userID(r.Context()), id)
	if !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": s.store.reviewsFor(book)})
}

func (s *Stub) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid book ID")
		return
	}
	var in models.ReviewInput
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Rating < 1 || in.Rating > models.MaxRating {
		writeError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}
	if strings.TrimSpace(in.Comment) == "" {
		writeError(w, http.StatusBadRequest, "Comment is required")
		return
	}

	uid := userID(r.Context())
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	book, found := s.store.ownedBook(uid, id)
	if !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	if s.store.hasReview(uid, id) {
		writeError(w, http.StatusConflict, "You have already reviewed this book")
		return
	}

	review := models.Review{
		ID:        s.store.nextID(),
		BookID:    id,
		UserID:    uid,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: s.now(),
	}
	s.store.reviews = append(s.store.reviews, reviewRecord{review: review, isbn: book.ISBN})
	writeJSON(w, http.StatusCreated, review)
}

func (s *Stub) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	var in models.GoalInput
	if !decode(r, &in) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Year < 1000 || in.Month < 0 || in.Month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid goal period")
		return
	}
	if in.TargetBooks < 1 {
		writeError(w, http.StatusBadRequest, "Target must be at least 1")
		return
	}

	s.store.mu.Lock()
	s.store.goals[goalKey{userID(r.Context()), in.Year, in.Month}] = in.TargetBooks
	s.store.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Goal set successfully"})
}

func (s *Stub) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	month := 0
	if raw := chi.URLParam(r, "month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month")
			return
		}
	}

	uid := userID(r.Context())
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	target, found := s.store.goals[goalKey{uid, year, month}]
	if !found {
		writeError(w, http.StatusNotFound, "No goal found for this period")
		return
	}
	current := s.store.finishedIn(uid, models.Period{Year: year, Month: month})
	writeJSON(w, http.StatusOK, models.GoalProgress{
		Year:        year,
		Month:       month,
		Target:      target,
		Current:     current,
		IsCompleted: current >= target,
	})
}

func (s *Stub) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.store.mu.Lock()
	stats := s.store.dashboard(userID(r.Context()), s.now())
	s.store.mu.Unlock()
	writeJSON(w, http.StatusOK, stats)
}
