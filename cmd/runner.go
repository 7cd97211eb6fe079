package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/readtrack/internal/repositories"
	"github.com/desertthunder/readtrack/internal/services"
	"github.com/desertthunder/readtrack/internal/session"
	"github.com/desertthunder/readtrack/internal/shared"
	"github.com/desertthunder/readtrack/internal/validation"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
	httpClient *http.Client
	session    *session.Session
	client     *services.Client
	validator  *validation.Validator
	db         *sql.DB
	now        func() time.Time
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	HTTPClient *http.Client
	// Session replaces the SQLite-backed session, mainly in tests.
	Session *session.Session
	Now     func() time.Time
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
		httpClient: opts.HTTPClient,
		session:    opts.Session,
		validator:  validation.NewWithClock(opts.Now),
		now:        opts.Now,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, booksCommand, progressCommand, goalsCommand, reviewsCommand,
		dashboardCommand, exportCommand, tuiCommand, devCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads .env files and the config, then applies the log level. A
// config injected through [RunnerOpts] is used as is.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := shared.LoadEnv(cmd.StringSlice("env-file")...); err != nil {
		return ctx, err
	}

	if r.config == nil {
		if path := cmd.String("config"); path != "" {
			r.configPath = path
		}
		config, err := r.loadConfig()
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if url := cmd.String("api-url"); url != "" {
		r.config.API.BaseURL = url
	}
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	level, err := shared.ParseLogLevel(r.config.Log.Level)
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

func (r *Runner) loadConfig() (*shared.Config, error) {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	config, err := shared.LoadConfig(path)
	if errors.Is(err, shared.ErrMissingConfig) {
		r.logger.Debug("config file not found, using defaults", "path", path)
		config = shared.DefaultConfig()
	} else if err != nil {
		return nil, err
	}
	config.ApplyEnv()
	return config, nil
}

// Close releases the local store.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) cfg() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

// openSession opens the token store on first use.
func (r *Runner) openSession() (*session.Session, error) {
	if r.session != nil {
		return r.session, nil
	}

	db, err := shared.OpenStore(r.cfg().Storage)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.session = session.New(repositories.NewKVRepository(db))
	r.logger.Debug("opened token store", "path", r.cfg().Storage.Path)
	return r.session, nil
}

// api returns the REST client, authenticating requests with the stored session.
func (r *Runner) api() (*services.Client, error) {
	if r.client != nil {
		return r.client, nil
	}

	sess, err := r.openSession()
	if err != nil {
		return nil, err
	}
	r.client = services.NewClient(services.ClientOpts{
		BaseURL:    r.cfg().API.BaseURL,
		Tokens:     sess,
		HTTPClient: r.httpClient,
		Logger:     r.logger,
	})
	return r.client, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// prompt writes label and reads one line of input.
func (r *Runner) prompt(label string) (string, error) {
	if err := r.writePlain("%s", label); err != nil {
		return "", err
	}
	line, err := r.input.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: no input", shared.ErrCancelled)
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question on the terminal. Anything but y or yes is a no.
func (r *Runner) Confirm(_ context.Context, question string) (bool, error) {
	answer, err := r.prompt(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
