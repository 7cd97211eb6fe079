package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/readtrack/internal/formatter"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/tasks"
	"github.com/urfave/cli/v3"
)

func formatList() string {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Export writes the library with each book's progress to a file.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	client, err := r.api()
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchBooks:
				r.writePlain("📚 %s\n", update.Message)
			case tasks.FetchProgress:
				r.logger.Debug(update.Message, "step", update.Step, "total", update.Total)
			case tasks.WriteExport:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	path, err := tasks.NewExporter(client).Export(ctx, format, cmd.String("output"), progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	r.logger.Info("library exported", "format", format, "path", path)
	return nil
}
