package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/corehouse/mustache/parser"
	"github.com/corehouse/mustache/render"
)

// renderOptions collects a single invocation's flag values.
type renderOptions struct {
	dataPath    string
	partialsDir string
	partialExt  string
	outPath     string
	stream      bool
}

func newRootCommand(logger *zap.Logger) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "mustache [template]",
		Short: "Render a Mustache template against a JSON or YAML context",
		Long: "mustache renders a template (a file argument, or stdin if omitted) " +
			"against a data context loaded from --data, optionally resolving " +
			"{{>partial}}/{{<parent}} tags from a directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, opts, logger)
		},
	}

	cmd.Flags().StringVar(&opts.dataPath, "data", "", "path to a JSON or YAML context file (default: empty context)")
	cmd.Flags().StringVar(&opts.partialsDir, "partials", "", "directory to resolve {{>name}}/{{<name}} tags from")
	cmd.Flags().StringVar(&opts.partialExt, "ext", ".mustache", "file extension appended to a partial's name")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "write rendered output here atomically instead of stdout")
	cmd.Flags().BoolVar(&opts.stream, "stream", false, "parse the template incrementally instead of loading it fully into memory")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, opts *renderOptions, logger *zap.Logger) error {
	var src io.Reader
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("mustache: opening template: %w", err)
		}
		defer f.Close()
		src = f
	} else {
		src = cmd.InOrStdin()
	}

	ctx, err := loadContext(opts.dataPath)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	renderOpts := render.Options{}
	if opts.partialsDir != "" {
		renderOpts.Partials = render.NewFSPartialLoader(os.DirFS(opts.partialsDir), opts.partialExt, logger)
	}
	renderer := render.New(&out, ctx, renderOpts)

	if opts.stream {
		p := parser.NewFromReader(src, parser.Options{Streaming: true})
		if err := p.Parse(renderer); err != nil {
			return reportParseError(logger, args, p, err)
		}
	} else {
		data, err := io.ReadAll(src)
		if err != nil {
			return fmt.Errorf("mustache: reading template: %w", err)
		}
		p := parser.NewFromString(string(data), parser.Options{})
		if err := p.Parse(renderer); err != nil {
			return reportParseError(logger, args, p, err)
		}
	}

	if opts.outPath == "" {
		_, err := out.WriteTo(cmd.OutOrStdout())
		return err
	}
	return renameio.WriteFile(opts.outPath, out.Bytes(), 0o644)
}

// reportParseError logs the structured ast.ParseError (if the failure was
// one) before returning a plain error for cobra to surface.
func reportParseError(logger *zap.Logger, args []string, p *parser.Parser, err error) error {
	name := "<stdin>"
	if len(args) == 1 {
		name = filepath.Base(args[0])
	}
	if pe := p.LastError(); pe != nil {
		logger.Error("parse failed", zap.String("template", name), zap.String("kind", string(pe.Kind)), zap.Int("line", pe.Line), zap.Int("column", pe.Column))
	}
	return fmt.Errorf("mustache: %s: %w", name, err)
}

// loadContext reads path as YAML (a superset of JSON) into a generic
// map/slice/scalar context. An empty path renders against an empty context.
func loadContext(path string) (any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mustache: reading data file: %w", err)
	}
	var ctx any
	if err := yaml.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("mustache: parsing data file: %w", err)
	}
	return ctx, nil
}
