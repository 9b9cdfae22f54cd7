package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/specialistvlad/shadergrid/internal/app"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitCompile = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// options are the flag values shared by all commands.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	manifests  []string

	graph        string
	output       string
	vertexOutput string

	previewURL       string
	previewNamespace string
	previewEvent     string
	previewInsecure  bool
	healthcheckPort  int
	debounce         time.Duration
}

// Execute runs the command line in args. Shader text and listings go to
// outW, logs and diagnostics to errW. The returned error is nil or an
// *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra reports itself is a usage problem.
	return usageError(err)
}

// NewRootCommand builds the shadergrid command tree.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "shadergrid",
		Short: "Compile typed shader graphs into GLSL.",
		Long: `shadergrid compiles a dataflow graph of shading nodes, written in HCL,
into a GLSL fragment shader paired with a fixed full-screen vertex shader.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to a YAML config file. Flags override its values.")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringSliceVar(&opts.manifests, "manifests", nil, "Files or directories with node_type manifests.")

	root.AddCommand(
		newCompileCommand(opts, outW, errW),
		newWatchCommand(opts, outW, errW),
		newTypesCommand(opts, outW, errW),
	)
	return root
}

// buildConfig merges the config file, the flags that were set and the
// positional graph path, in increasing priority.
func buildConfig(cmd *cobra.Command, opts *options, args []string) (*app.Config, error) {
	var cfg app.Config
	if opts.configPath != "" {
		fileCfg, err := app.LoadConfigFile(opts.configPath)
		if err != nil {
			return nil, usageError(err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			apply()
		}
	}
	set("log-level", func() { cfg.LogLevel = opts.logLevel })
	set("log-format", func() { cfg.LogFormat = opts.logFormat })
	set("manifests", func() { cfg.ManifestPaths = opts.manifests })
	set("graph", func() { cfg.GraphPath = opts.graph })
	set("output", func() { cfg.OutputPath = opts.output })
	set("vertex-output", func() { cfg.VertexOutputPath = opts.vertexOutput })
	set("preview-url", func() { cfg.PreviewURL = opts.previewURL })
	set("preview-namespace", func() { cfg.PreviewNamespace = opts.previewNamespace })
	set("preview-event", func() { cfg.PreviewEvent = opts.previewEvent })
	set("preview-insecure", func() { cfg.PreviewInsecure = opts.previewInsecure })
	set("healthcheck-port", func() { cfg.HealthcheckPort = opts.healthcheckPort })
	set("debounce", func() { cfg.Debounce = opts.debounce })

	if len(args) > 0 {
		cfg.GraphPath = args[0]
	}
	slog.Debug("Configuration merged.", "config_file", opts.configPath, "graph", cfg.GraphPath)

	conf, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return conf, nil
}

// newApp builds the app, turning a startup panic into an exit error.
func newApp(outW, errW io.Writer, cfg *app.Config) (a *app.App, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExitError{Code: ExitCompile, Message: fmt.Sprintf("A critical startup error occurred: %v", r)}
		}
	}()
	a, err = app.NewApp(outW, errW, cfg)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return a, nil
}
