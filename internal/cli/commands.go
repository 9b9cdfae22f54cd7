package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/shadergrid/internal/app"
	"github.com/specialistvlad/shadergrid/internal/preview"
	"github.com/specialistvlad/shadergrid/internal/registry"
	"github.com/specialistvlad/shadergrid/internal/watch"
	"github.com/spf13/cobra"
)

func addGraphFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.graph, "graph", "g", "", "Path to the graph file or directory.")
}

func newCompileCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [GRAPH_PATH]",
		Short: "Compile a graph once and write the shaders.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			a, err := newApp(outW, errW, cfg)
			if err != nil {
				return err
			}
			if err := a.Run(cmd.Context()); err != nil {
				return &ExitError{Code: ExitCompile, Message: err.Error()}
			}
			return nil
		},
	}
	addGraphFlag(cmd, opts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the fragment shader to this file instead of stdout.")
	cmd.Flags().StringVar(&opts.vertexOutput, "vertex-output", "", "Also write the vertex shader to this file.")
	return cmd
}

func newWatchCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [GRAPH_PATH]",
		Short: "Recompile on every change and publish results to a live preview.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			a, err := newApp(outW, errW, cfg)
			if err != nil {
				return err
			}
			ctx := a.Context(cmd.Context())

			var pub app.Publisher
			if cfg.PreviewURL != "" {
				p, err := preview.Dial(ctx, cfg.PreviewURL, cfg.PreviewNamespace, cfg.PreviewEvent, cfg.PreviewInsecure)
				if err != nil {
					return &ExitError{Code: ExitCompile, Message: err.Error()}
				}
				defer p.Close()
				pub = p
			}

			if err := a.Watch(ctx, pub); err != nil {
				return &ExitError{Code: ExitCompile, Message: err.Error()}
			}
			return nil
		},
	}
	addGraphFlag(cmd, opts)
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Also write every successful fragment shader to this file.")
	f.StringVar(&opts.vertexOutput, "vertex-output", "", "Also write the vertex shader to this file.")
	f.StringVar(&opts.previewURL, "preview-url", "", "socket.io URL of the live-preview renderer.")
	f.StringVar(&opts.previewNamespace, "preview-namespace", "/", "socket.io namespace of the live-preview renderer.")
	f.StringVar(&opts.previewEvent, "preview-event", preview.DefaultEvent, "Event name compilation results are emitted under.")
	f.BoolVar(&opts.previewInsecure, "preview-insecure", false, "Skip TLS certificate verification for the preview connection.")
	f.IntVar(&opts.healthcheckPort, "healthcheck-port", 0, "Port for the health check and metrics server. 0 is disabled.")
	f.DurationVar(&opts.debounce, "debounce", watch.DefaultDebounce, "Quiet period after a change before recompiling.")
	return cmd
}

func newTypesCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered node types and their sockets.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The type listing does not read a graph.
			cfg, err := buildConfig(cmd, opts, []string{"."})
			if err != nil {
				return err
			}
			a, err := newApp(outW, errW, cfg)
			if err != nil {
				return err
			}
			return printTypes(outW, a.Registry())
		},
	}
}

func printTypes(w io.Writer, reg *registry.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tINPUTS\tOUTPUTS")
	for _, t := range reg.Types() {
		def, _ := reg.Lookup(t)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t, sockets(def.Inputs), sockets(def.Outputs))
	}
	return tw.Flush()
}

func sockets(defs []registry.SocketDef) string {
	if len(defs) == 0 {
		return "-"
	}
	parts := make([]string, len(defs))
	for i, d := range defs {
		parts[i] = fmt.Sprintf("%s %s", d.Key, d.Type)
	}
	return strings.Join(parts, ", ")
}
