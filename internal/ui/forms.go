package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/tasks"
)

func (m *Model) loginForm() FormSpec {
	request := func(v Values) models.LoginRequest {
		return models.LoginRequest{Email: strings.TrimSpace(v["email"]), Password: v["password"]}
	}
	return FormSpec{
		Title: "Log in",
		Fields: []Field{
			{Key: "email", Label: "Email", Placeholder: "you@example.com"},
			{Key: "password", Label: "Password", Kind: SecretField},
		},
		Check: func(v Values) error { return m.deps.Validator.Validate(request(v)) },
		Submit: func(ctx context.Context, v Values) error {
			resp, err := m.deps.Auth.Login(ctx, request(v))
			if err != nil {
				return err
			}
			return m.deps.Session.Save(resp.Token)
		},
	}
}

func (m *Model) registerForm() FormSpec {
	request := func(v Values) models.RegisterRequest {
		return models.RegisterRequest{
			Name:     strings.TrimSpace(v["name"]),
			Email:    strings.TrimSpace(v["email"]),
			Password: v["password"],
		}
	}
	return FormSpec{
		Title: "Create account",
		Fields: []Field{
			{Key: "name", Label: "Name"},
			{Key: "email", Label: "Email", Placeholder: "you@example.com"},
			{Key: "password", Label: "Password", Kind: SecretField, Placeholder: "at least 6 characters"},
		},
		Check: func(v Values) error { return m.deps.Validator.Validate(request(v)) },
		Submit: func(ctx context.Context, v Values) error {
			_, err := m.deps.Auth.Register(ctx, request(v))
			return err
		},
	}
}

func bookInput(v Values) models.BookInput {
	return models.BookInput{
		Title:           v["title"],
		Author:          v["author"],
		ISBN:            v["isbn"],
		Genre:           v["genre"],
		PublicationYear: v.Int("publication_year"),
		TotalPages:      v.Int("total_pages"),
	}
}

func optionalInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// bookForm adds a book when existing is nil and edits it otherwise.
func (m *Model) bookForm(existing *models.Book) FormSpec {
	var in models.BookInput
	if existing != nil {
		in = models.InputFrom(*existing)
	}

	spec := FormSpec{
		Title: "Add book",
		Fields: []Field{
			{Key: "title", Label: "Title", Value: in.Title},
			{Key: "author", Label: "Author", Value: in.Author},
			{Key: "isbn", Label: "ISBN", Value: in.ISBN, Placeholder: "optional"},
			{Key: "genre", Label: "Genre", Value: in.Genre, Placeholder: "optional"},
			{Key: "publication_year", Label: "Published", Kind: NumberField, Value: optionalInt(in.PublicationYear), Placeholder: "optional", Validate: wholeNumber},
			{Key: "total_pages", Label: "Total pages", Kind: NumberField, Value: optionalInt(in.TotalPages), Validate: wholeNumber},
		},
		Check: func(v Values) error {
			_, err := m.deps.Catalog.Validate(bookInput(v))
			return err
		},
	}

	if existing == nil {
		spec.Submit = func(ctx context.Context, v Values) error {
			_, err := m.deps.Catalog.Add(ctx, bookInput(v))
			return err
		}
		spec.Done = func() tea.Cmd {
			title := strings.TrimSpace(m.form.Values()["title"])
			cmd := m.navigate(LibraryView)
			m.notice = fmt.Sprintf("Added %q", title)
			return cmd
		}
		return spec
	}

	id := existing.ID
	var updated *models.Book
	spec.Title = "Edit " + existing.Title
	spec.Submit = func(ctx context.Context, v Values) error {
		b, err := m.deps.Catalog.Edit(ctx, id, bookInput(v))
		updated = b
		return err
	}
	spec.Done = func() tea.Cmd {
		if updated != nil {
			m.book = updated
		}
		cmd := m.navigate(DetailView)
		m.notice = "Book updated"
		return cmd
	}
	return spec
}

func statusChoices() []string {
	choices := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		choices[i] = s.String()
	}
	return choices
}

func (m *Model) progressForm(book models.Book, p models.Progress) FormSpec {
	start := tasks.FormFor(p)
	candidate := func(v Values) tasks.ProgressForm {
		return tasks.ProgressForm{Status: models.Status(v["status"]), Page: models.ParsePage(v["current_page"])}
	}

	return FormSpec{
		Title: "Progress: " + book.Title,
		Fields: []Field{
			{Key: "status", Label: "Status", Kind: ChoiceField, Choices: statusChoices(), Value: start.Status.String()},
			{Key: "current_page", Label: "Current page", Kind: NumberField, Value: start.PageInput()},
		},
		OnChange: func(key string, v Values) Values {
			if key != "status" {
				return v
			}
			f := candidate(v)
			f.SetStatus(f.Status, book.TotalPages)
			v["current_page"] = f.PageInput()
			return v
		},
		Check: func(v Values) error {
			_, err := tasks.Evaluate(book, candidate(v))
			return err
		},
		Submit: func(ctx context.Context, v Values) error {
			_, err := m.deps.Progress.Submit(ctx, book, candidate(v))
			return err
		},
		Done: func() tea.Cmd {
			cmd := m.navigate(DetailView)
			m.notice = "Progress saved"
			return cmd
		},
		Preview: func(v Values) string {
			page := models.ParsePage(v["current_page"])
			return m.percentBar(models.Percent(page, book.TotalPages)) + fmt.Sprintf("  of %d pages", book.TotalPages)
		},
	}
}

func goalPeriod(v Values) models.Period {
	return models.Period{Year: v.Int("year"), Month: v.Int("month")}
}

func (m *Model) goalForm(p models.Period, current *models.GoalProgress) FormSpec {
	target := ""
	if current != nil {
		target = optionalInt(current.Target)
	}

	return FormSpec{
		Title: "Set reading goal",
		Fields: []Field{
			{Key: "year", Label: "Year", Kind: NumberField, Value: strconv.Itoa(p.Year), Validate: wholeNumber},
			{Key: "month", Label: "Month", Kind: NumberField, Value: optionalInt(p.Month), Placeholder: "blank for the whole year", Validate: wholeNumber},
			{Key: "target_books", Label: "Books", Kind: NumberField, Value: target, Validate: wholeNumber},
		},
		Check: func(v Values) error {
			return m.deps.Validator.Validate(models.GoalFor(goalPeriod(v), v.Int("target_books")))
		},
		Submit: func(ctx context.Context, v Values) error {
			_, err := m.deps.Goals.Set(ctx, goalPeriod(v), v.Int("target_books"))
			return err
		},
		Done: func() tea.Cmd {
			m.period = goalPeriod(m.form.Values())
			cmd := m.navigate(GoalsView)
			m.notice = "Goal saved"
			return cmd
		},
	}
}

func (m *Model) reviewForm(book models.Book) FormSpec {
	ratings := make([]string, models.MaxRating)
	for i := range ratings {
		ratings[i] = strconv.Itoa(i + 1)
	}
	input := func(v Values) models.ReviewInput {
		return models.ReviewInput{Rating: v.Int("rating"), Comment: strings.TrimSpace(v["comment"])}
	}

	return FormSpec{
		Title: "Review " + book.Title,
		Fields: []Field{
			{Key: "rating", Label: "Rating", Kind: ChoiceField, Choices: ratings, Value: strconv.Itoa(models.MaxRating)},
			{Key: "comment", Label: "Comment"},
		},
		Check: func(v Values) error { return m.deps.Validator.Validate(input(v)) },
		Submit: func(ctx context.Context, v Values) error {
			in := input(v)
			return m.deps.Reviews.Submit(ctx, book.ID, in.Rating, in.Comment)
		},
		Done: func() tea.Cmd {
			cmd := m.navigate(ReviewsView)
			m.notice = "Review posted"
			return cmd
		},
		Preview: func(v Values) string { return styles.warn.Render(models.Stars(v.Int("rating"))) },
	}
}
