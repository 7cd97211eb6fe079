package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/readtrack/internal/models"
	"github.com/desertthunder/readtrack/internal/tasks"
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	var keys []key.Binding

	switch m.view {
	case LoginView:
		body = m.form.View()
		keys = []key.Binding{m.keys.submit, m.keys.register}
	case RegisterView:
		body = m.form.View()
		keys = []key.Binding{m.keys.submit, m.keys.back}
	case LibraryView:
		body = m.renderLibrary()
		keys = []key.Binding{m.keys.enter, m.keys.search, m.keys.add, m.keys.goals, m.keys.dashboard, m.keys.quit}
	case DetailView:
		body = m.renderDetail()
		keys = []key.Binding{m.keys.progress, m.keys.edit, m.keys.remove, m.keys.reviews, m.keys.back}
	case FormView:
		body = m.form.View()
		keys = []key.Binding{m.keys.submit, m.keys.back}
	case ConfirmView:
		body = m.renderConfirm()
		keys = []key.Binding{m.keys.yes, m.keys.no}
	case GoalsView:
		body = m.renderGoals()
		keys = []key.Binding{m.keys.prev, m.keys.next, m.keys.monthly, m.keys.edit, m.keys.back}
	case ReviewsView:
		body = m.renderReviews()
		keys = []key.Binding{m.keys.add, m.keys.back}
	case DashboardView:
		body = m.renderDashboard()
		keys = []key.Binding{m.keys.refresh, m.keys.back}
	}

	var b strings.Builder
	b.WriteString(body)
	if m.notice != "" {
		b.WriteString("\n" + styles.ok.Render(m.notice))
	}
	if m.err != nil {
		b.WriteString("\n" + styles.err.Render("Error: "+m.err.Error()))
	}
	if m.busy && m.view != FormView {
		b.WriteString("\n" + styles.warn.Render("Loading..."))
	}
	b.WriteString("\n\n" + m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) percentBar(pct int) string {
	return m.bar.ViewAs(float64(pct)/100) + fmt.Sprintf(" %3d%%", pct)
}

func (m *Model) renderLibrary() string {
	var b strings.Builder
	b.WriteString(m.library.View())
	b.WriteString("\n" + m.search.View())
	if len(m.books) == 0 && !m.busy {
		if strings.TrimSpace(m.search.Value()) != "" {
			b.WriteString("\n" + styles.help.Render("No books match your search."))
		} else {
			b.WriteString("\n" + styles.help.Render("Your library is empty. Press a to add a book."))
		}
	}
	return b.String()
}

func (m *Model) renderDetail() string {
	if m.book == nil {
		return styles.help.Render("No book selected")
	}
	book := m.book

	var b strings.Builder
	b.WriteString(styles.title.Render(book.Title) + "\n")
	fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Author"), book.Author)
	if book.ISBN != "" {
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render("ISBN"), book.ISBN)
	}
	if book.Genre != "" {
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Genre"), book.Genre)
	}
	if book.PublicationYear != 0 {
		fmt.Fprintf(&b, "%s %d\n", styles.label.Render("Published"), book.PublicationYear)
	}
	fmt.Fprintf(&b, "%s %d\n\n", styles.label.Render("Pages"), book.TotalPages)

	if m.progress == nil {
		return b.String()
	}
	state := models.StateOf(*m.progress)
	page := state.Page(book.TotalPages)
	fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Status"), styles.accent.Render(state.Status().String()))
	fmt.Fprintf(&b, "%s %d of %d\n", styles.label.Render("Page"), page, book.TotalPages)
	b.WriteString(m.percentBar(models.Percent(page, book.TotalPages)))
	return b.String()
}

func (m *Model) renderConfirm() string {
	if m.book == nil {
		return ""
	}
	title := styles.title.Render(tasks.DeletePrompt(*m.book))
	return fmt.Sprintf("%s\n%s", title, styles.warn.Render("Its progress and reviews are removed too."))
}

func (m *Model) renderGoals() string {
	var b strings.Builder
	kind := "Yearly"
	if m.period.IsMonthly() {
		kind = "Monthly"
	}
	b.WriteString(styles.title.Render(fmt.Sprintf("%s goal · %s", kind, m.period)) + "\n")

	switch {
	case m.busy:
	case m.goal == nil:
		b.WriteString(styles.help.Render("No goal set for this period. Press e to set one."))
	default:
		g := m.goal
		fmt.Fprintf(&b, "%d of %d books\n", g.Current, g.Target)
		b.WriteString(m.bar.ViewAs(g.Percent()/100) + fmt.Sprintf(" %.0f%%", g.Percent()))
		if g.IsCompleted {
			b.WriteString("\n" + styles.ok.Render("✓ Goal completed!"))
		}
	}
	return b.String()
}

func (m *Model) renderReviews() string {
	var b strings.Builder
	title := "Reviews"
	if m.book != nil {
		title = "Reviews · " + m.book.Title
	}
	b.WriteString(styles.title.Render(title) + "\n")

	if len(m.reviews) == 0 && !m.busy {
		b.WriteString(styles.help.Render("No reviews yet."))
		return b.String()
	}
	for _, r := range m.reviews {
		mine := ""
		if m.book != nil && m.deps.Reviews.IsOwn(m.book.ID, r) {
			mine = styles.accent.Render(" (you)")
		}
		fmt.Fprintf(&b, "%s%s\n", styles.warn.Render(r.Stars()), mine)
		fmt.Fprintf(&b, "  %s\n", r.Comment)
		if !r.CreatedAt.IsZero() {
			fmt.Fprintf(&b, "  %s\n", styles.help.Render(r.CreatedAt.Format("Jan 2, 2006")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Dashboard") + "\n")
	if m.stats == nil {
		return b.String()
	}
	s := m.stats
	row := func(label string, value any) {
		fmt.Fprintf(&b, "%s %v\n", styles.label.Render(label), value)
	}
	row("Total books", s.TotalBooks)
	row("Reading", s.CurrentlyReading)
	row("Finished", s.BooksFinished)
	row("Average rating", fmt.Sprintf("%.1f", s.AverageRating))
	row("Goals set", s.GoalsSetCount)
	if s.YearlyTarget > 0 {
		row("Yearly target", s.YearlyTarget)
	}
	if s.MonthlyTarget > 0 {
		row("Monthly goal", fmt.Sprintf("%d of %d", s.MonthlyFinished, s.MonthlyTarget))
		b.WriteString(m.bar.ViewAs(models.GoalPercent(s.MonthlyFinished, s.MonthlyTarget) / 100))
	}
	return b.String()
}
