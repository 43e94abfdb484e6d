package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/bigmd/internal/configloader"
	"github.com/yaklabco/bigmd/internal/linkopen"
	"github.com/yaklabco/bigmd/internal/logging"
	"github.com/yaklabco/bigmd/internal/ui"
	"github.com/yaklabco/bigmd/pkg/capability"
	"github.com/yaklabco/bigmd/pkg/config"
	"github.com/yaklabco/bigmd/pkg/render"
)

// probeTimeout bounds the capability handshake at startup.
const probeTimeout = time.Second

type viewOptions struct {
	path             string
	watch            bool
	overrideProtocol string
	noCapChecks      bool
	printConfig      bool
	configPath       string
	logFile          string
	debug            bool
}

// runView is the root command body: resolve config, negotiate the
// terminal capability, and hand the terminal to the viewer.
func runView(cmd *cobra.Command, opts *viewOptions) error {
	if opts.printConfig {
		tpl, err := config.GenerateTemplate()
		if err != nil {
			return &internalError{err}
		}
		_, err = cmd.OutOrStdout().Write(tpl)
		return err
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = os.Getenv(configloader.EnvConfig)
	}
	loaded, err := configloader.Load(configloader.LoadOptions{ExplicitPath: configPath})
	if err != nil {
		return &configError{err}
	}
	cfg := loaded.Config
	cfg.Path = opts.path
	cfg.WatchEnabled = opts.watch
	cfg.OverrideProtocol = opts.overrideProtocol
	cfg.NoCapChecks = opts.noCapChecks
	cfg.LogFile = opts.logFile
	cfg.Debug = opts.debug

	logger, closeLog, err := buildLogger(cfg)
	if err != nil {
		return &ioError{err}
	}
	if closeLog != nil {
		defer closeLog.Close()
	}
	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if loaded.LoadedFrom != "" {
		logger.Debug("config loaded", logging.FieldPath, loaded.LoadedFrom)
	}

	source, title, baseDir, err := resolveSource(cfg)
	if err != nil {
		return err
	}
	if cfg.WatchEnabled && cfg.Path == "" {
		return &usageError{fmt.Errorf("--watch requires a file argument")}
	}

	termCap, err := negotiateCapability(cfg)
	if err != nil {
		return &usageError{err}
	}
	logger.Info("capability negotiated",
		logging.FieldCapability, termCap.String(),
		logging.FieldCellWidth, termCap.CellWidth,
		logging.FieldCellHeight, termCap.CellHeight)

	renderer := render.NewRenderer(termCap, cfg, render.NewImageLoader(baseDir), logger)

	ctx, cancel := context.WithCancel(logging.WithLogger(context.Background(), logger))
	defer cancel()

	var program *tea.Program
	worker := ui.NewWorker(source, func(msg tea.Msg) {
		program.Send(msg)
	}, logger)

	model := ui.NewModel(cfg, renderer, worker, linkopen.New(), title, logger)
	if cfg.Path == "" {
		// Piped stdin is read once; there is nothing for r to re-read.
		model.DisableReload()
	}
	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		// The document came in on stdin; read keys from the terminal.
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	program = tea.NewProgram(model, progOpts...)

	// The program must exist before the worker goroutines can send to it.
	worker.Start(ctx)
	if cfg.WatchEnabled {
		debounce := time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond
		if err := worker.Watch(ctx, cfg.Path, debounce); err != nil {
			return &ioError{err}
		}
	}

	if _, err := program.Run(); err != nil {
		return &internalError{fmt.Errorf("run viewer: %w", err)}
	}
	return nil
}

// buildLogger picks the log sink. Interactive runs must not write to
// the terminal, so without --log everything is discarded.
func buildLogger(cfg *config.Config) (*log.Logger, io.Closer, error) {
	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	if cfg.LogFile == "" {
		return logging.Discard(), nil, nil
	}
	return logging.NewFile(cfg.LogFile, level)
}

// resolveSource picks the document source: the file argument, or stdin
// when input is piped in.
func resolveSource(cfg *config.Config) (ui.ReadSource, string, string, error) {
	if cfg.Path != "" {
		abs, err := filepath.Abs(cfg.Path)
		if err != nil {
			return nil, "", "", &ioError{err}
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, "", "", &ioError{fmt.Errorf("open %s: %w", cfg.Path, err)}
		}
		return ui.FileSource(abs), filepath.Base(abs), filepath.Dir(abs), nil
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, "", "", &usageError{fmt.Errorf("no file argument and no piped input")}
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, "", "", &ioError{fmt.Errorf("read stdin: %w", err)}
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return ui.BytesSource(data), "(stdin)", wd, nil
}

// negotiateCapability resolves the rendering capability: an explicit
// override, the conservative fallback, or a live probe of the terminal.
func negotiateCapability(cfg *config.Config) (capability.Capability, error) {
	if cfg.OverrideProtocol != "" {
		return capability.Parse(cfg.OverrideProtocol)
	}
	if cfg.NoCapChecks {
		return capability.Fallback(), nil
	}

	tty, cleanup, err := openProbeTTY()
	if err != nil {
		// No controlling terminal; render conservatively.
		return capability.Fallback(), nil
	}
	defer cleanup()

	restore, err := rawMode(tty)
	if err != nil {
		return capability.Fallback(), nil
	}
	defer restore()

	return capability.Detect(capability.DetectOptions{
		TTY:     tty,
		Timeout: probeTimeout,
	}), nil
}

// openProbeTTY returns a handle on the controlling terminal. With the
// document piped in on stdin, /dev/tty still reaches the terminal.
func openProbeTTY() (*os.File, func(), error) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return os.Stdin, func() {}, nil
	}
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// rawMode puts the probe terminal into raw mode so replies arrive
// unbuffered, returning the restore function.
func rawMode(f *os.File) (func(), error) {
	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { _ = term.Restore(fd, state) }, nil
}
