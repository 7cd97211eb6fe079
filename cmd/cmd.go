// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/readtrack/internal/formatter"
	"github.com/urfave/cli/v3"
)

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

func bookFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Book title"},
		&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "Author name"},
		&cli.StringFlag{Name: "isbn", Usage: "ISBN"},
		&cli.StringFlag{Name: "genre", Usage: "Genre"},
		&cli.IntFlag{Name: "year", Usage: "Publication year"},
		&cli.IntFlag{Name: "pages", Aliases: []string{"p"}, Usage: "Total pages"},
	}
}

// setupCommand writes the config file and prepares the token store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the local token store",
		Action: r.Setup,
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Register, log in and manage the session",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Display name"},
					&cli.StringFlag{Name: "email", Usage: "Email address"},
					&cli.StringFlag{Name: "password", Usage: "Password (prompted when omitted)"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Log in and store the session token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Email address"},
					&cli.StringFlag{Name: "password", Usage: "Password (prompted when omitted)"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session",
				Flags:  jsonFlags(),
				Action: r.AuthStatus,
			},
		},
	}
}

// booksCommand handles catalog operations
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "books",
		Aliases: []string{"b"},
		Usage:   "Manage the books in your library",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your books",
				Flags:   jsonFlags(),
				Action:  r.BooksList,
			},
			{
				Name:      "show",
				Usage:     "Show one book with its progress",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     jsonFlags(),
				Action:    r.BooksShow,
			},
			{
				Name:   "add",
				Usage:  "Add a book",
				Flags:  bookFlags(),
				Action: r.BooksAdd,
			},
			{
				Name:      "edit",
				Usage:     "Edit a book; omitted flags keep their current value",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     bookFlags(),
				Action:    r.BooksEdit,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Remove a book from your library",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
				},
				Action: r.BooksDelete,
			},
			{
				Name:      "search",
				Usage:     "Search books by title or author",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Flags:     jsonFlags(),
				Action:    r.BooksSearch,
			},
		},
	}
}

// progressCommand handles reading progress
func progressCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "progress",
		Usage: "Show or update reading progress",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show the progress of a book",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     jsonFlags(),
				Action:    r.ProgressShow,
			},
			{
				Name:      "update",
				Usage:     "Set the status and current page of a book",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: `"want-to-read", "reading" or "finished"`},
					&cli.StringFlag{Name: "page", Usage: "Current page"},
				},
				Action: r.ProgressUpdate,
			},
		},
	}
}

// goalsCommand handles reading goals
func goalsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "goals",
		Usage: "Set and follow yearly or monthly reading goals",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Set the number of books to finish in a period",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "period", Usage: "Year (2025) or month (2025-03); defaults to this year"},
					&cli.IntFlag{Name: "target", Usage: "Books to finish", Required: true},
				},
				Action: r.GoalsSet,
			},
			{
				Name:      "show",
				Usage:     "Show goal progress for a period",
				Arguments: []cli.Argument{&cli.StringArg{Name: "period"}},
				Flags:     jsonFlags(),
				Action:    r.GoalsShow,
			},
		},
	}
}

// reviewsCommand handles book reviews
func reviewsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reviews",
		Usage: "Read and write book reviews",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List the reviews of a book",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     jsonFlags(),
				Action:    r.ReviewsList,
			},
			{
				Name:      "add",
				Usage:     "Review a book (once per book)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "rating", Aliases: []string{"r"}, Usage: "Rating from 1 to 5", Required: true},
					&cli.StringFlag{Name: "comment", Aliases: []string{"m"}, Usage: "Review text", Required: true},
				},
				Action: r.ReviewsAdd,
			},
		},
	}
}

func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "dashboard",
		Usage:  "Show reading statistics",
		Flags:  jsonFlags(),
		Action: r.Dashboard,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the library with reading progress",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "One of " + formatList(),
				Value:   string(formatter.CSV),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file or directory (default: ./library.<ext>)",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive reading tracker",
		Action:  r.TUI,
	}
}

// devCommand groups helpers for local development
func devCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Development helpers",
		Commands: []*cli.Command{
			{
				Name:  "stub",
				Usage: "Serve an in-memory backend for local development",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "Listen address (default: stub.addr from config)"},
				},
				Action: r.DevStub,
			},
		},
	}
}
