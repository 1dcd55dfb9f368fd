package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	csv2pdf "github.com/alnah/go-csv2pdf"
	"github.com/alnah/go-csv2pdf/internal/config"
	"github.com/alnah/go-csv2pdf/internal/fileutil"
	"github.com/alnah/go-csv2pdf/internal/hints"
	"github.com/alnah/go-csv2pdf/internal/tabular"
	"github.com/alnah/go-csv2pdf/internal/templating"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrWriteOutput = errors.New("failed to write output")
)

// outputPermissions is rw-r--r--, the mode of every written document.
const outputPermissions = 0o644

// runOptions holds everything resolved from flags, config and environment.
type runOptions struct {
	configName string
	input      csv2pdf.Input
	page       *csv2pdf.PageSettings
	timeout    time.Duration // zero keeps the converter default
	output     string        // empty writes to stdout
	watch      bool
	serveAddr  string // non-empty starts the preview server
	quiet      bool
}

// runMain parses arguments, runs the requested mode and returns the exit code.
func runMain(args []string, env *Environment) int {
	flags, positional, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		fmt.Fprintln(env.Stderr, "Run 'csv2pdf --help' for usage.")
		return exitCodeFor(err)
	}
	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "csv2pdf %s\n", Version)
		return ExitSuccess
	}
	if flags.doctor {
		return runDoctor(env, flags.json)
	}

	logger := newLogger(env.Stderr, flags.common)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}

	opts, err := resolveOptions(flags, positional, loadEnvConfig(env.Getenv))
	if err != nil {
		reportError(env.Stderr, err, opts)
		return exitCodeFor(err)
	}

	convOpts := []csv2pdf.Option{
		csv2pdf.WithLogger(logger),
		csv2pdf.WithPageSettings(opts.page),
	}
	if opts.timeout > 0 {
		convOpts = append(convOpts, csv2pdf.WithTimeout(opts.timeout))
	}
	conv := env.NewConverter(convOpts...)
	defer func() {
		if cerr := conv.Close(); cerr != nil {
			logger.Warn("closing browser", slog.Any("error", cerr))
		}
	}()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	switch {
	case opts.serveAddr != "":
		err = runServe(ctx, env, conv, opts, logger)
	case opts.watch:
		err = runWatch(ctx, env, conv, opts, logger)
	default:
		err = convertOnce(ctx, env, conv, opts, logger)
	}
	if err != nil {
		reportError(env.Stderr, err, opts)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// newLogger builds the text logger on stderr: warnings by default, debug
// details with --verbose, errors only with --quiet.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveOptions merges flags, config file and environment.
// Precedence: CLI flags > config file > environment > defaults.
// The returned options are non-nil even on error, carrying what was resolved
// so far for hints.
func resolveOptions(f *cliFlags, positional []string, envCfg *envConfig) (*runOptions, error) {
	opts := &runOptions{
		configName: f.common.config,
		output:     f.output.path,
		watch:      f.mode.watch,
		quiet:      f.common.quiet,
	}
	if opts.configName == "" {
		opts.configName = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if opts.configName != "" {
		loaded, err := config.LoadConfig(opts.configName)
		if err != nil {
			return opts, err
		}
		cfg = loaded
	}
	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		return opts, err
	}

	opts.input = csv2pdf.Input{
		TemplatePath:     positional[0],
		DataPath:         positional[1],
		Encoding:         firstNonEmpty(f.input.encoding, cfg.Input.Encoding),
		ForceDoubleQuote: f.input.doubleQuote || cfg.Input.DoubleQuote,
		Lang:             firstNonEmpty(f.output.lang, cfg.Output.Lang),
	}
	if f.output.html || cfg.Output.HTML {
		opts.input.Format = csv2pdf.FormatHTML
	}

	opts.page = resolvePage(f.page, cfg.Page)
	if err := opts.page.Validate(); err != nil {
		return opts, err
	}

	timeout, err := resolveTimeout(f.timeout, cfg)
	if err != nil {
		return opts, err
	}
	opts.timeout = timeout

	if f.mode.serve != "" {
		if opts.output != "" {
			return opts, fmt.Errorf("%w: --serve does not write --output", ErrUsage)
		}
		opts.serveAddr = f.mode.serve
		if opts.serveAddr == serveDefaultSentinel {
			opts.serveAddr = firstNonEmpty(cfg.Serve.Addr, DefaultServeAddr)
		}
	}
	return opts, nil
}

// resolvePage layers config then flag values over the default page settings.
func resolvePage(f pageFlags, cfg config.PageConfig) *csv2pdf.PageSettings {
	page := csv2pdf.DefaultPageSettings()
	if size := firstNonEmpty(f.size, cfg.Size); size != "" {
		page.Size = strings.ToLower(size)
	}
	if orientation := firstNonEmpty(f.orientation, cfg.Orientation); orientation != "" {
		page.Orientation = strings.ToLower(orientation)
	}
	switch {
	case f.margin != 0:
		page.Margin = f.margin
	case cfg.Margin != 0:
		page.Margin = cfg.Margin
	}
	return page
}

// resolveTimeout returns the --timeout flag value, else the config value.
// Zero means neither is set.
func resolveTimeout(flagValue string, cfg *config.Config) (time.Duration, error) {
	if flagValue == "" {
		return cfg.TimeoutDuration()
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: --timeout %q: %v", ErrUsage, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: --timeout must be positive, got %s", ErrUsage, flagValue)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// convertOnce renders one document and writes it.
func convertOnce(ctx context.Context, env *Environment, conv Converter, opts *runOptions, logger *slog.Logger) error {
	start := time.Now()
	result, err := conv.Convert(ctx, opts.input)
	if err != nil {
		return err
	}
	if err := writeOutput(env.Stdout, opts.output, result); err != nil {
		return err
	}
	logger.Info("output written",
		slog.String("path", outputName(opts.output)),
		slog.String("format", result.Format.String()),
		slog.Int("bytes", len(result.Bytes())),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// writeOutput writes the document to path, or to stdout followed by a
// newline when path is empty. Files are replaced atomically so a failed run
// never leaves a partial document.
func writeOutput(stdout io.Writer, path string, result *csv2pdf.Result) error {
	data := result.Bytes()
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("%w: stdout: %w", ErrWriteOutput, err)
		}
		if _, err := io.WriteString(stdout, "\n"); err != nil {
			return fmt.Errorf("%w: stdout: %w", ErrWriteOutput, err)
		}
		return nil
	}
	if err := fileutil.WriteFileAtomic(path, data, outputPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

func outputName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

// reportError writes the diagnostic for err, with a hint when one applies.
func reportError(w io.Writer, err error, opts *runOptions) {
	prefix := "error: "
	if errors.Is(err, csv2pdf.ErrRender) {
		prefix = "Errors encountered, processing stopped: "
	}
	fmt.Fprintf(w, "%s%v%s\n", prefix, err, hintFor(err, opts))
}

// hintFor returns actionable advice for err, or "".
func hintFor(err error, opts *runOptions) string {
	if opts == nil {
		opts = &runOptions{}
	}
	switch {
	case errors.Is(err, csv2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		if opts.configName == "" || fileutil.IsFilePath(opts.configName) {
			return ""
		}
		return hints.ForConfigNotFound(config.SearchPaths(opts.configName))
	case errors.Is(err, csv2pdf.ErrStylesheetNotFound):
		return hints.ForStylesheet(csv2pdf.StylesheetPath(opts.input.TemplatePath))
	case errors.Is(err, tabular.ErrDecode), errors.Is(err, tabular.ErrUnknownEncoding):
		return hints.ForEncoding()
	case errors.Is(err, tabular.ErrSniff):
		return hints.ForSniff()
	case errors.Is(err, templating.ErrUndefined):
		return hints.ForUndefinedField(dataHeader(opts.input))
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// dataHeader re-reads the data file for its field names. Nil on failure.
func dataHeader(input csv2pdf.Input) []string {
	if input.DataPath == "" {
		return nil
	}
	ds, err := tabular.ReadFile(input.DataPath, tabular.Options{
		Encoding:         input.Encoding,
		ForceDoubleQuote: input.ForceDoubleQuote,
	})
	if err != nil {
		return nil
	}
	return ds.Header
}
