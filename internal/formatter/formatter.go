// package formatter renders a reading library to export formats (CSV, Markdown, plain text, JSON, YAML, HTML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/readtrack/internal/models"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// Format names an export format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
	JSON     Format = "json"
	YAML     Format = "yaml"
	HTML     Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{CSV, Markdown, Text, JSON, YAML, HTML}

// ParseFormat accepts a format name or its common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "html", "htm":
		return HTML, nil
	}
	return "", fmt.Errorf("unsupported format %q (supported: csv, markdown, txt, json, yaml, html)", s)
}

// Extension is the file extension used for the format, without the dot.
func (f Format) Extension() string {
	if f == Markdown {
		return "md"
	}
	return string(f)
}

// Library is a snapshot of a user's books with their progress.
type Library struct {
	ExportedAt time.Time
	Entries    []models.LibraryEntry
}

// entryRecord is the flat shape written by the JSON and YAML exporters.
type entryRecord struct {
	ID              int64  `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Author          string `json:"author" yaml:"author"`
	ISBN            string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Genre           string `json:"genre,omitempty" yaml:"genre,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty" yaml:"publication_year,omitempty"`
	TotalPages      int    `json:"total_pages" yaml:"total_pages"`
	Status          string `json:"status" yaml:"status"`
	CurrentPage     int    `json:"current_page" yaml:"current_page"`
	Percent         int    `json:"percent" yaml:"percent"`
}

type libraryRecord struct {
	ExportedAt string        `json:"exported_at" yaml:"exported_at"`
	Count      int           `json:"count" yaml:"count"`
	Books      []entryRecord `json:"books" yaml:"books"`
}

func (l *Library) records() libraryRecord {
	rec := libraryRecord{
		ExportedAt: l.ExportedAt.UTC().Format(time.RFC3339),
		Count:      len(l.Entries),
		Books:      make([]entryRecord, 0, len(l.Entries)),
	}
	for _, e := range l.Entries {
		rec.Books = append(rec.Books, entryRecord{
			ID:              e.Book.ID,
			Title:           e.Book.Title,
			Author:          e.Book.Author,
			ISBN:            e.Book.ISBN,
			Genre:           e.Book.Genre,
			PublicationYear: e.Book.PublicationYear,
			TotalPages:      e.Book.TotalPages,
			Status:          string(e.Progress.Status),
			CurrentPage:     e.Progress.CurrentPage,
			Percent:         e.Percent(),
		})
	}
	return rec
}

// ExportToCSV writes one row per book with its progress columns.
func ExportToCSV(lib *Library) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Author", "ISBN", "Genre", "Year", "Pages", "Status", "Current Page", "Percent"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range lib.Entries {
		year := ""
		if e.Book.PublicationYear > 0 {
			year = strconv.Itoa(e.Book.PublicationYear)
		}
		record := []string{
			strconv.FormatInt(e.Book.ID, 10),
			e.Book.Title,
			e.Book.Author,
			e.Book.ISBN,
			e.Book.Genre,
			year,
			strconv.Itoa(e.Book.TotalPages),
			string(e.Progress.Status),
			strconv.Itoa(e.Progress.CurrentPage),
			strconv.Itoa(e.Percent()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`", "#", `\#`)

// ExportToMarkdown groups books under one heading per reading status.
func ExportToMarkdown(lib *Library) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Reading Library\n\n")
	fmt.Fprintf(&buf, "**Books**: %d\n", len(lib.Entries))
	fmt.Fprintf(&buf, "**Exported**: %s\n", lib.ExportedAt.Format("2006-01-02"))

	for _, status := range models.Statuses {
		var section []models.LibraryEntry
		for _, e := range lib.Entries {
			if e.Progress.Status == status {
				section = append(section, e)
			}
		}
		if len(section) == 0 {
			continue
		}

		fmt.Fprintf(&buf, "\n## %s\n\n", status)
		for i, e := range section {
			fmt.Fprintf(&buf, "%d. %s by %s (%d/%d pages, %d%%)\n",
				i+1, mdEscaper.Replace(e.Book.Title), mdEscaper.Replace(e.Book.Author),
				e.Progress.CurrentPage, e.Book.TotalPages, e.Percent())
		}
	}
	return buf.Bytes(), nil
}

// ExportToText converts the library to a plain text listing
func ExportToText(lib *Library) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Books: %d\n\n", len(lib.Entries))
	for i, e := range lib.Entries {
		fmt.Fprintf(&buf, "%d. %s - %s [%s, %d%%]\n", i+1, e.Book.Author, e.Book.Title, e.Progress.Status, e.Percent())
	}
	return buf.Bytes(), nil
}

// ExportToJSON marshals the flat library records.
func ExportToJSON(lib *Library, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(lib.records(), "", "  ")
	} else {
		data, err = json.Marshal(lib.records())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML marshals the same records as [ExportToJSON] to YAML.
func ExportToYAML(lib *Library) ([]byte, error) {
	data, err := yaml.Marshal(lib.records())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return data, nil
}

// ExportToHTML renders the Markdown export to a standalone HTML page.
func ExportToHTML(lib *Library) ([]byte, error) {
	md, err := ExportToMarkdown(lib)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := goldmark.Convert(md, &body); err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Reading Library</title>\n</head>\n<body>\n")
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

// Export renders lib in the given format.
func Export(lib *Library, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(lib)
	case Markdown:
		return ExportToMarkdown(lib)
	case Text:
		return ExportToText(lib)
	case JSON:
		return ExportToJSON(lib, true)
	case YAML:
		return ExportToYAML(lib)
	case HTML:
		return ExportToHTML(lib)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// WriteExport renders lib and writes it to path, returning the path written.
//
// An empty path defaults to library.<ext> in the working directory; a path
// naming an existing directory gets library.<ext> inside it.
func WriteExport(lib *Library, format Format, path string) (string, error) {
	data, err := Export(lib, format)
	if err != nil {
		return "", err
	}

	name := "library." + format.Extension()
	switch info, statErr := os.Stat(path); {
	case path == "":
		path = name
	case statErr == nil && info.IsDir():
		path = filepath.Join(path, name)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
