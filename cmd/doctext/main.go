package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/doctext/extract"
	"github.com/fwojciec/doctext/fs"
	dochttp "github.com/fwojciec/doctext/http"
	"github.com/fwojciec/doctext/ingest"
	docslog "github.com/fwojciec/doctext/slog"
	"github.com/fwojciec/doctext/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// Optional .env file for local development; missing is fine.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// DataDir is the root of the payload file store.
	DataDir string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Resources *sqlite.ResourceService
	Files     *fs.Store
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:  defaultDBPath(),
		DataDir: defaultDataDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("doctext"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'doctext --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCTEXT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	// Wire core services into dependencies
	m.Resources = sqlite.NewResourceService(m.DB)
	m.Files = fs.NewStore(m.DataDir)
	deps.DB = m.DB
	deps.Resources = m.Resources
	deps.Files = m.Files
	deps.Logger = logger

	fetcher := docslog.NewLoggingFetcher(
		dochttp.NewFetcher(dochttp.WithHostLimiter(dochttp.NewHostLimiter(1.0))),
		logger,
	)
	extractors := docslog.WrapRegistry(extract.Registry(logger), logger)

	opts := []ingest.Option{ingest.WithLogger(logger)}
	if endpoint := os.Getenv("DOCTEXT_UPLOAD_URL"); endpoint != "" {
		uploader, err := dochttp.NewUploader(endpoint, os.Getenv("DOCTEXT_API_TOKEN"))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: DOCTEXT_UPLOAD_URL requires DOCTEXT_API_TOKEN to be set")
			return fmt.Errorf("failed to configure uploader: %w", err)
		}
		opts = append(opts, ingest.WithUploader(uploader))
	}

	deps.Processor = ingest.NewProcessor(m.Resources, m.Files, fetcher, extractors, opts...)

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("DOCTEXT_DB"); path != "" {
		return path
	}
	dir := configDir()
	return filepath.Join(dir, "doctext.db")
}

func defaultDataDir() string {
	if path := os.Getenv("DOCTEXT_DATA_DIR"); path != "" {
		return path
	}
	return filepath.Join(configDir(), "data")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, ".doctext")
	_ = os.MkdirAll(dir, 0755)
	return dir
}
