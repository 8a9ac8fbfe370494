package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/handiism/bandcamp-sync/internal/bandcamp"
	"github.com/handiism/bandcamp-sync/internal/config"
	"github.com/handiism/bandcamp-sync/internal/cookies"
	"github.com/handiism/bandcamp-sync/internal/download"
	bchttp "github.com/handiism/bandcamp-sync/internal/http"
	ioutils "github.com/handiism/bandcamp-sync/internal/io"
	"github.com/handiism/bandcamp-sync/internal/logging"
	"github.com/handiism/bandcamp-sync/internal/tui"
)

// debugFileName is where debug-collection --save writes its dump.
const debugFileName = "debug_collection.json"

// Runner holds the dependencies of the CLI commands and provides a method
// for each command action.
type Runner struct {
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner, filling in defaults for nil options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = logging.New(nil, false)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{logger: opts.Logger, output: opts.Output}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		runCommand, debugCollectionCommand, initCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// loadSettings reads the config file and applies the flags (and their
// environment variables) that were set on top of it.
func (r *Runner) loadSettings(cmd *cli.Command) (*config.Settings, error) {
	settings, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	strs := map[string]*string{
		"user":          &settings.User,
		"cookies":       &settings.Cookies,
		"format":        &settings.Format,
		"output-folder": &settings.OutputFolder,
		"artist":        &settings.Artist,
		"album":         &settings.Album,
	}
	for name, dst := range strs {
		if cmd.IsSet(name) {
			*dst = cmd.String(name)
		}
	}

	bools := map[string]*bool{
		"force":          &settings.Force,
		"dry-run":        &settings.DryRun,
		"debug":          &settings.Debug,
		"include-hidden": &settings.IncludeHidden,
	}
	for name, dst := range bools {
		if cmd.IsSet(name) {
			*dst = cmd.Bool(name)
		}
	}

	ints := map[string]*int{
		"jobs":  &settings.Jobs,
		"limit": &settings.Limit,
	}
	for name, dst := range ints {
		if cmd.IsSet(name) {
			*dst = cmd.Int(name)
		}
	}

	return settings, nil
}

// newClient builds the shared rate limited client authenticated with the
// configured cookies.
func (r *Runner) newClient(settings *config.Settings) (*bchttp.Client, error) {
	list, err := cookies.Load(settings.Cookies)
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	jar, err := cookies.Jar(list)
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}

	opts := settings.ClientOptions()
	opts.Jar = jar
	return bchttp.NewClient(opts), nil
}

// Sync downloads the collection.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	settings, err := r.loadSettings(cmd)
	if err != nil {
		return err
	}
	if settings.Debug {
		r.logger.SetLevel(log.DebugLevel)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	client, err := r.newClient(settings)
	if err != nil {
		return err
	}

	if cmd.Bool("tui") {
		summary, err := tui.Run(ctx, settings, client)
		if err != nil {
			return err
		}
		r.printDryRun(summary)
		return nil
	}

	logger := logging.ForRun(r.logger)
	manager := download.NewManager(settings, client, download.Callbacks{
		OnProgress: logging.ProgressHandler(logger),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go r.handleSignals(ctx, logger, manager, cancel)

	summary, err := manager.Run(ctx)
	if err != nil {
		return err
	}

	r.printDryRun(summary)
	logger.Info("Finished",
		"found", summary.Found,
		"queued", summary.Queued,
		"downloaded", summary.Downloaded,
		"skipped", summary.Skipped,
		"unavailable", summary.Sentinels,
		"failed", summary.Failed,
	)
	return nil
}

// handleSignals stops the manager on the first interrupt and cancels the
// run on the second.
func (r *Runner) handleSignals(ctx context.Context, logger *log.Logger, manager *download.Manager, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
		logger.Warn("Interrupted, finishing current releases (interrupt again to abort)")
		manager.Stop()
	case <-ctx.Done():
		return
	}

	select {
	case <-sigCh:
		logger.Warn("Aborting")
		cancel()
	case <-ctx.Done():
	}
}

func (r *Runner) printDryRun(summary *download.Summary) {
	if summary == nil {
		return
	}
	for _, line := range summary.DryRun {
		fmt.Fprintln(r.output, line)
	}
}

// DebugCollection prints (or saves) the redacted collection page blob.
func (r *Runner) DebugCollection(ctx context.Context, cmd *cli.Command) error {
	settings, err := r.loadSettings(cmd)
	if err != nil {
		return err
	}
	if settings.User == "" {
		return errors.New("user is required")
	}

	client, err := r.newClient(settings)
	if err != nil {
		return err
	}

	collection := bandcamp.NewCollection(client, bandcamp.CollectionOptions{BaseURL: settings.BaseURL})
	dump, err := collection.DebugCollection(ctx, settings.User, cmd.Bool("full"))
	if err != nil {
		return err
	}

	if !cmd.Bool("save") {
		_, err := fmt.Fprintln(r.output, string(dump))
		return err
	}

	if err := ioutils.WriteFile(ctx, debugFileName, dump); err != nil {
		return err
	}
	r.logger.Info("Saved collection dump", "path", debugFileName)
	return nil
}

// Init writes a configuration file holding the default settings.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.DefaultSettings().Save(path); err != nil {
		return err
	}
	r.logger.Info("Wrote configuration", "path", path)
	return nil
}
