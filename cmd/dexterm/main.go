package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/dexterm/internal/cache"
	"github.com/smileynet/dexterm/internal/catalog"
	"github.com/smileynet/dexterm/internal/config"
	"github.com/smileynet/dexterm/internal/dashboard"
	"github.com/smileynet/dexterm/internal/detail"
	"github.com/smileynet/dexterm/internal/highlights"
	"github.com/smileynet/dexterm/internal/logger"
	"github.com/smileynet/dexterm/internal/metrics"
	"github.com/smileynet/dexterm/internal/paginate"
	"github.com/smileynet/dexterm/internal/report"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errNoTTY is returned by browse when stdout is not a terminal.
var errNoTTY = errors.New("requires a terminal (TTY)")

// Globals are flags shared by every command.
type Globals struct {
	Config string `help:"Extra config file layered over the defaults." type:"path" placeholder:"PATH"`
}

// CLI is the top-level command structure for dexterm.
type CLI struct {
	Globals

	Version    kong.VersionFlag `help:"Show version." short:"V"`
	Browse     BrowseCmd        `cmd:"" default:"1" help:"Open the interactive catalog browser."`
	List       ListCmd          `cmd:"" help:"Print one page of the catalog."`
	Show       ShowCmd          `cmd:"" help:"Print the details of one creature."`
	Move       MoveCmd          `cmd:"" help:"Print the details of one move."`
	Highlights HighlightsCmd    `cmd:"" help:"Print the highlights table."`
}

// catalogReader is what the plain-text commands need from the catalog.
type catalogReader interface {
	dashboard.Source
	Lookup(ctx context.Context, ref string) (*catalog.DetailRecord, error)
	MoveLocator(ref string) string
	LoadHighlights(ctx context.Context) ([]highlights.Card, error)
}

// loadConfig loads layered config from the user and project paths, then the
// --config file, then env overrides.
func loadConfig(extra string) (*config.Config, error) {
	paths := config.DefaultPaths()
	if extra != "" {
		paths = append(paths, extra)
	}
	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger returns the session logger. Log output goes to log.file when
// set, otherwise to fallback; a nil fallback discards everything.
func setupLogger(cfg *config.Config, fallback io.Writer) (*slog.Logger, func(), error) {
	if cfg.Log.File != "" {
		f, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, nil, err
		}
		return logger.Setup(cfg.Log.Level, cfg.Log.Format, f), func() { _ = f.Close() }, nil
	}
	if fallback == nil {
		return logger.Discard(), func() {}, nil
	}
	return logger.Setup(cfg.Log.Level, cfg.Log.Format, fallback), func() {}, nil
}

// session loads config, the logger, and the shared catalog source for a
// plain-text command.
func session(g *Globals, op string) (*config.Config, *catalogSource, func(), error) {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	log, closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, newCatalogSource(cfg, log, nil), closeLog, nil
}

// BrowseCmd opens the interactive TUI.
type BrowseCmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the browser.
func (b *BrowseCmd) Run(g *Globals) error {
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if !isTTY {
		return fmt.Errorf("browse: %w", errNoTTY)
	}

	cfg, err := loadConfig(g.Config)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	// The TUI owns the terminal, so logs go to log.file or nowhere.
	log, closeLog, err := setupLogger(cfg, nil)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		if err := m.Serve(ctx, cfg.Metrics.Addr, logger.WithComponent(log, "metrics")); err != nil {
			return fmt.Errorf("browse: metrics: %w", err)
		}
	}

	src := newCatalogSource(cfg, log, m)
	model := dashboard.NewModel(ctx, src,
		dashboard.WithCancelFunc(cancel),
		dashboard.WithPageSizes(cfg.Browse.PageSize, cfg.Browse.PageSizeOptions),
		dashboard.WithSearchDebounce(cfg.Browse.SearchDebounce),
	)
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	return b.run(isTTY, prog)
}

func (b *BrowseCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("browse: %w", errNoTTY)
	}
	_, err := prog.Run()
	return err
}

// ListCmd prints one page of the catalog, optionally filtered.
type ListCmd struct {
	Query    string `help:"Name substring or #id." short:"q"`
	Page     int    `help:"Page number, clamped to the available range." default:"1"`
	PageSize int    `help:"Items per page (defaults to browse.page_size)." name:"page-size"`
}

// Run loads the session and prints the page.
func (l *ListCmd) Run(g *Globals) error {
	cfg, src, closeLog, err := session(g, "list")
	if err != nil {
		return err
	}
	defer closeLog()

	size := l.PageSize
	if size == 0 {
		size = cfg.Browse.PageSize
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return l.run(ctx, os.Stdout, src, size)
}

func (l *ListCmd) run(ctx context.Context, w io.Writer, src catalogReader, size int) error {
	if size <= 0 {
		return fmt.Errorf("list: %w", catalog.NewError(catalog.ErrInvalidArgument, "list", "", fmt.Errorf("page size %d", size)))
	}
	index, err := src.Index(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	list := index
	res := src.Search(ctx, l.Query, index)
	switch {
	case res.Err != nil && !errors.Is(res.Err, catalog.ErrNotFound):
		return fmt.Errorf("list: %w", res.Err)
	case !res.All:
		list = res.Entries
	}

	p := paginate.Paginate(len(list), size, l.Page)
	cards := src.Page(ctx, paginate.Slice(list, p))
	report.WritePage(w, len(list), p, cards)
	return nil
}

// ShowCmd prints one creature.
type ShowCmd struct {
	Ref string `arg:"" name:"name-or-id" help:"Creature name, id, or locator."`
}

// Run loads the session and prints the record.
func (s *ShowCmd) Run(g *Globals) error {
	_, src, closeLog, err := session(g, "show")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return s.run(ctx, os.Stdout, src)
}

func (s *ShowCmd) run(ctx context.Context, w io.Writer, src catalogReader) error {
	rec, err := src.Lookup(ctx, s.Ref)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	report.WriteDetail(w, detail.Build(rec))
	return nil
}

// MoveCmd prints one move.
type MoveCmd struct {
	Ref string `arg:"" name:"name-or-locator" help:"Move name or locator."`
}

// Run loads the session and prints the move.
func (m *MoveCmd) Run(g *Globals) error {
	_, src, closeLog, err := session(g, "move")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return m.run(ctx, os.Stdout, src)
}

func (m *MoveCmd) run(ctx context.Context, w io.Writer, src catalogReader) error {
	mv, err := src.Move(ctx, src.MoveLocator(m.Ref))
	if err != nil {
		return fmt.Errorf("move: %w", err)
	}
	report.WriteMove(w, detail.BuildMove(mv))
	return nil
}

// HighlightsCmd prints the highlights table.
type HighlightsCmd struct{}

// Run loads the session and prints the table.
func (h *HighlightsCmd) Run(g *Globals) error {
	_, src, closeLog, err := session(g, "highlights")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return h.run(ctx, os.Stdout, src)
}

func (h *HighlightsCmd) run(ctx context.Context, w io.Writer, src catalogReader) error {
	cards, err := src.LoadHighlights(ctx)
	if err != nil {
		return fmt.Errorf("highlights: %w", err)
	}
	report.WriteHighlights(w, cards)
	if n := highlights.Failed(cards); n > 0 {
		slog.Warn("some highlights could not be resolved", slog.Int("failed", n), slog.Int("total", len(cards)))
	}
	return nil
}

// Exit codes.
const (
	exitSuccess = 0
	exitFetch   = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	switch catalog.KindOf(err) {
	case catalog.ErrNetwork, catalog.ErrProtocol, catalog.ErrNotFound:
		return exitFetch
	}
	return exitSetup
}

// Compile-time checks that the session source serves both surfaces.
var (
	_ dashboard.Source   = (*catalogSource)(nil)
	_ catalogReader      = (*catalogSource)(nil)
	_ highlights.Fetcher = (*cache.Detail)(nil)
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("dexterm"),
		kong.Description("Browse the creature catalog from the terminal."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
