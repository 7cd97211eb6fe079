package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/readtrack/internal/models"
)

var _ list.Item = bookItem{}

// bookItem wraps [models.Book] to implement [list.Item].
type bookItem struct {
	book models.Book
}

func (i bookItem) FilterValue() string { return i.book.Title }
func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) Description() string {
	desc := i.book.Author
	if i.book.PublicationYear != 0 {
		desc = fmt.Sprintf("%s • %d", desc, i.book.PublicationYear)
	}
	return fmt.Sprintf("%s • %d pages", desc, i.book.TotalPages)
}

func bookItems(books []models.Book) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b}
	}
	return items
}
