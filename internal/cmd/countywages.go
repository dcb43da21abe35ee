// Package cmd owns the implementation details of the CLI command.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/Quartz/county-wages/internal/pkg/bridge"
	"github.com/Quartz/county-wages/internal/pkg/chart"
	"github.com/Quartz/county-wages/internal/pkg/config"
	"github.com/Quartz/county-wages/internal/pkg/graphic"
	"github.com/Quartz/county-wages/internal/pkg/image"
	"github.com/Quartz/county-wages/internal/pkg/interactive"
	"github.com/Quartz/county-wages/internal/pkg/layout"
	"github.com/Quartz/county-wages/internal/pkg/loader"
	"github.com/Quartz/county-wages/internal/pkg/model"
	"github.com/Quartz/county-wages/internal/pkg/page"
	"github.com/Quartz/county-wages/internal/pkg/raster"
	"github.com/Quartz/county-wages/internal/pkg/server"
	"github.com/Quartz/county-wages/internal/pkg/tui"
)

const defaultConfigFile = "countywages.yaml"

// Command holds command line flags and executes the countywages command.
//
// It knows how to load a configuration file in a [config.Config] and manage CLI flag configuration overrides.
//
// The main purpose of this package is to deal with io's: opening and closing files, standard streams and signals.
type Command struct {
	Config     string
	OutputFile string
	Sort       string
	Base       string
	Width      int
	Engine     string
	Png        bool
	Report     bool
	Serve      bool
	Addr       string
	TUI        bool
	L          *slog.Logger

	// Stdin and Stdout default to the process standard streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// NewCommand builds a CLI command with registered flags and an injected logger.
func NewCommand() *Command {
	// inject a structured logger
	cli := &Command{
		L: slog.Default().With(slog.String("module", "main")),
	}

	cli.registerFlags()

	return cli
}

// Parse command line flags and arguments.
func (*Command) Parse() error {
	return flag.CommandLine.Parse(os.Args[1:])
}

// Fatalf logs an error message then exits. The output is spewed on both stderr and the structured logger output.
func (c *Command) Fatalf(err error) {
	c.L.Error(err.Error())
	log.Fatalf("%v", err)
}

// Execute the CLI with flags and extra arguments.
//
// The only argument is the data source. If none is passed, command line arguments (i.e. [os.Args]) are used,
// then the data source from the configuration.
func (c *Command) Execute(args ...string) error {
	if args == nil { // passing explicit args allows for testing Execute without altering [os.Args]
		args = c.args()
	}

	if len(args) > 1 {
		return fmt.Errorf("expected at most one data source, got %d", len(args))
	}

	cfg, cleanup, err := c.prepareConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	source := cfg.Data.Source
	if len(args) == 1 {
		source = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. load and transform the data source
	records, err := c.loadRecords(ctx, cfg, source)
	if err != nil {
		return err
	}

	switch {
	case c.Report:
		// just want to report about the content of the data source
		return c.report(source, records)
	case c.Serve:
		return server.New(cfg, records, server.WithAddr(cfg.Server.Addr)).ListenAndServe(ctx)
	case c.TUI:
		return tui.Run(ctx, tui.New(cfg, records))
	}

	// 2. render the page as HTML, possibly to stdout, possibly to temp file
	if cfg.Outputs.HTMLFile != "" {
		if err := c.writeHTML(ctx, cfg, records); err != nil {
			return err
		}
	}

	if cfg.Outputs.PngFile == "" {
		// html only: we're done
		return nil
	}

	// 3. produce a PNG image
	return c.writePNG(ctx, cfg, records)
}

func (*Command) args() []string {
	return flag.CommandLine.Args()
}

func (c *Command) registerFlags() {
	defaults := Command{
		Config:     defaultConfigFile,
		OutputFile: "-",
	}

	flag.StringVar(&c.Config, "config", defaults.Config, "config file")
	flag.StringVar(&c.Config, "c", defaults.Config, "config file (shorthand)")
	flag.StringVar(&c.OutputFile, "output", defaults.OutputFile, "file output or - for standard output")
	flag.StringVar(&c.OutputFile, "o", defaults.OutputFile, "file output or - for standard output (shorthand)")
	flag.StringVar(&c.Sort, "sort", defaults.Sort, "initial sort field, e.g. wages_2015")
	flag.StringVar(&c.Base, "base", defaults.Base, "initial baseline mode: start or change")
	flag.IntVar(&c.Width, "width", defaults.Width, "container width in pixels")
	flag.StringVar(&c.Engine, "engine", defaults.Engine, "page engine: svg or echarts")
	flag.BoolVar(&c.Png, "png", defaults.Png, "enable PNG output")
	flag.BoolVar(&c.Report, "r", defaults.Report, "report data contents only, no rendering (shorthand)")
	flag.BoolVar(&c.Report, "report", defaults.Report, "report data contents only")
	flag.BoolVar(&c.Serve, "serve", defaults.Serve, "serve the interactive chart over HTTP")
	flag.StringVar(&c.Addr, "addr", defaults.Addr, "address to listen on with -serve")
	flag.BoolVar(&c.TUI, "tui", defaults.TUI, "preview the chart in the terminal")
}

func (c *Command) prepareConfig() (cfg *config.Config, cleanup func(), err error) {
	cfg, err = c.loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err = c.setConfig(cfg); err != nil {
		return nil, nil, fmt.Errorf("preparing config: %w", err)
	}

	if cfg.Outputs.IsTemp && !c.Report {
		cleanup = func() {
			_ = os.Remove(cfg.Outputs.HTMLFile)
		}

		return cfg, cleanup, err
	}

	return cfg, func() {}, err
}

// loadConfig loads the config file. Only a missing default config file falls back to the embedded defaults.
func (c *Command) loadConfig() (*config.Config, error) {
	file := c.Config
	if file == "" {
		file = defaultConfigFile
	}

	cfg, err := config.Load(file)
	if err == nil {
		return cfg, nil
	}

	if file == defaultConfigFile && errors.Is(err, fs.ErrNotExist) {
		c.L.Info("no config file found: using defaults", slog.String("config", file))

		return config.LoadDefaults()
	}

	return nil, err
}

// apply CLI flags overrides to YAML config.
func (c *Command) setConfig(cfg *config.Config) error {
	if c.Sort != "" {
		f, err := model.ParseField(c.Sort)
		if err != nil {
			return fmt.Errorf("sort: %w", err)
		}
		cfg.Controls.Sort = f
	}

	if c.Base != "" {
		b, err := model.ParseLineBase(c.Base)
		if err != nil {
			return fmt.Errorf("base: %w", err)
		}
		cfg.Controls.Base = b
	}

	if c.Width != 0 {
		if c.Width < 0 {
			return fmt.Errorf("width must be positive: %d", c.Width)
		}
		if c.Width > cfg.Render.MaxWidth {
			return fmt.Errorf("width exceeds the maximum of %d: %d", cfg.Render.MaxWidth, c.Width)
		}
		cfg.Render.Width = c.Width
	}

	if c.Engine != "" {
		engine := config.Engine(c.Engine)
		if !engine.IsValid() {
			return fmt.Errorf("unknown engine %q (should be one of %v)", c.Engine, []config.Engine{config.EngineSVG, config.EngineECharts})
		}
		cfg.Render.Engine = engine
	}

	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}

	if c.OutputFile != "" && c.OutputFile != "-" {
		// an outfile is defined: infer the PNG file from the HTML file provided
		cfg.Outputs.HTMLFile = inferHTMLFile(c.OutputFile)
		if cfg.Outputs.PngFile == "" && c.Png {
			cfg.Outputs.PngFile = inferImageFile(cfg.Outputs.HTMLFile)
		}
	}

	if c.Report || c.Serve || c.TUI {
		return nil
	}

	switch {
	case cfg.Outputs.HTMLFile == "" && cfg.Outputs.PngFile == "":
		c.L.Info("output sent to standard output as HTML, no PNG image rendered")
		if c.Png {
			c.L.Info("set an output file to render a PNG image")
		}
		cfg.Outputs.HTMLFile = "-"
	case cfg.Outputs.HTMLFile == "" && cfg.Outputs.PngFile != "" && cfg.Render.Screenshot.Engine == config.ScreenshotChrome:
		c.L.Info("HTML generated as a temporary file to produce PNG")
		tmp, err := os.CreateTemp("", "countywages.*.html")
		if err != nil {
			return err
		}
		cfg.Outputs.HTMLFile = tmp.Name()
		cfg.Outputs.IsTemp = true
		_ = tmp.Close()
	}

	return nil
}

func (c *Command) loadRecords(ctx context.Context, cfg *config.Config, source string) ([]model.Record, error) {
	opts := []loader.Option{loader.WithTimeout(cfg.Data.TimeoutDuration())}
	if c.Stdin != nil {
		opts = append(opts, loader.WithStdin(c.Stdin))
	}

	t0 := time.Now()
	raws, err := loader.New(opts...).Load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("loading data: %w", err)
	}

	records, err := model.Transform(raws)
	if err != nil {
		return nil, fmt.Errorf("transforming data: %w", err)
	}

	c.L.Info("loaded data",
		slog.String("source", source),
		slog.Int("records", len(records)),
		slog.Duration("duration", time.Since(t0)),
	)

	return records, nil
}

// report produces a report that explores the data source.
func (c *Command) report(source string, records []model.Record) error {
	enc := json.NewEncoder(c.stdout())
	enc.SetIndent("", " ")

	return enc.Encode(model.Summarize(source, records))
}

func (c *Command) writeHTML(ctx context.Context, cfg *config.Config, records []model.Record) error {
	var buf bytes.Buffer

	switch cfg.Render.Engine {
	case config.EngineECharts:
		sorted, err := model.SortBy(records, cfg.Controls.Sort)
		if err != nil {
			return err
		}

		if err := chart.New(cfg, sorted, cfg.Controls.Base).BuildPage().Render(&buf); err != nil {
			return fmt.Errorf("rendering echarts page: %w", err)
		}
	default:
		session, content, err := c.draw(ctx, cfg, records, graphic.New())
		if err != nil {
			return err
		}

		state := session.State()
		p := page.New(cfg, state.SortOrder, state.LineBase, content,
			page.WithThrottle(cfg.Resize.ThrottleDuration()),
		)
		if err := p.Render(&buf); err != nil {
			return err
		}
	}

	htmlWriter, htmlCloser, err := c.getWriter(cfg.Outputs.HTMLFile, "HTML")
	if err != nil {
		return err
	}
	defer htmlCloser()

	if _, err := htmlWriter.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

func (c *Command) writePNG(ctx context.Context, cfg *config.Config, records []model.Record) error {
	pngWriter, pngCloser, err := c.getWriter(cfg.Outputs.PngFile, "PNG")
	if err != nil {
		return err
	}
	defer pngCloser()

	shot := cfg.Render.Screenshot
	if shot.Engine == config.ScreenshotRaster {
		_, content, err := c.draw(ctx, cfg, records, raster.New())
		if err != nil {
			return err
		}

		if _, err := pngWriter.Write(content); err != nil {
			return fmt.Errorf("writing image: %w", err)
		}

		return nil
	}

	// convert the HTML page to a PNG image
	htmlReader, htmlCloser, err := getReader(cfg.Outputs.HTMLFile, "HTML")
	if err != nil {
		return err
	}
	defer htmlCloser()

	width := shot.Width
	if width == 0 {
		width = int64(cfg.Render.Width)
	}

	opts := []image.Option{
		image.WithWidth(width),
		image.WithHeight(shot.Height),
		image.WithSleep(shot.SleepDuration()),
	}
	if cfg.Render.Engine == config.EngineSVG {
		opts = append(opts, image.WithWaitSelector("#graphic svg"))
	}

	if err = image.New(opts...).Render(ctx, pngWriter, htmlReader); err != nil {
		return fmt.Errorf("rendering image: %w", err)
	}

	return nil
}

// draw renders the chart once for the configured state, at the configured width.
func (c *Command) draw(ctx context.Context, cfg *config.Config, records []model.Record, d interactive.Drawer) (*interactive.Session, []byte, error) {
	container := interactive.NewBuffer(cfg.Render.Width)
	session := interactive.NewSession(records, layout.NewParams(cfg.Render), d, container,
		interactive.WithSort(cfg.Controls.Sort),
		interactive.WithBase(cfg.Controls.Base),
		interactive.WithReporter(bridge.NewLogger(c.L)),
	)

	if err := session.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("rendering chart: %w", err)
	}

	return session, container.Bytes(), nil
}

func (c *Command) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}

	return os.Stdout
}

func getReader(file, kind string) (rdr *os.File, cleanup func(), err error) {
	rdr, err = os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = rdr.Close()
	}

	return rdr, cleanup, nil
}

func (c *Command) getWriter(file, kind string) (wrt io.Writer, cleanup func(), err error) {
	if file == "-" {
		return c.stdout(), func() {}, nil
	}

	f, err := os.Create(file)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s file for writing: %q: %w", kind, file, err)
	}

	cleanup = func() {
		_ = f.Close()
	}

	return f, cleanup, nil
}

func inferHTMLFile(base string) string {
	ext := path.Ext(base)
	stem, _ := strings.CutSuffix(base, ext)

	return stem + ".html"
}

func inferImageFile(base string) string {
	ext := path.Ext(base)
	stem, _ := strings.CutSuffix(base, ext)

	return stem + ".png"
}
