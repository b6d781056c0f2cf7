package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-hamlbars/internal/logging"
	"github.com/goliatone/go-hamlbars/internal/watcher"
	"github.com/goliatone/go-hamlbars/pkg/config"
	"github.com/goliatone/go-hamlbars/pkg/emitter"
	"github.com/goliatone/go-hamlbars/pkg/pipeline"
)

type options struct {
	verbosity  int
	configPath string

	output        string
	profile       string
	templatesRoot string
	destination   string
	compiler      string
	partialMethod string
	renderer      string
	sanitize      bool
	check         bool
	watch         bool

	logicalPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "hamlbars",
		Short: "Precompile markup templates into Handlebars registrations",
		Long: `hamlbars renders indentation-based markup templates to HTML and wraps
the result in JavaScript that registers it with a client-side Handlebars or
Ember template registry. Files whose name starts with "_" register as partials.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" when present)")
	root.PersistentFlags().StringVar(&opts.profile, "profile", "", "identifier preset: handlebars or ember")
	root.PersistentFlags().StringVar(&opts.templatesRoot, "templates-root", "", "prefix added to every registered name")
	root.PersistentFlags().StringVar(&opts.destination, "destination", "", "client-side object templates are stored on")
	root.PersistentFlags().StringVar(&opts.compiler, "compiler", "", "client-side template compile function")
	root.PersistentFlags().StringVar(&opts.partialMethod, "partial-method", "", "client-side partial registration function")
	root.PersistentFlags().StringVar(&opts.renderer, "renderer", "", "force a renderer (amber, pongo2)")
	root.PersistentFlags().BoolVar(&opts.sanitize, "sanitize", false, "sanitize rendered HTML before emitting")

	root.PersistentFlags().BoolVar(&opts.check, "check", false, "reject rendered HTML that is not valid Handlebars")

	root.AddCommand(newCompileCmd(opts), newEmitCmd(opts))
	return root
}

func newCompileCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [dir]",
		Short: "Compile a template directory into one JavaScript bundle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			dir := file.SourceDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				dir = "."
			}

			p, err := buildPipeline(file)
			if err != nil {
				return err
			}

			if err := compileOnce(cmd, p, dir, file); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}
			return watchAndCompile(cmd, p, dir, file)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "bundle file (stdout when empty)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "recompile when templates change")
	return cmd
}

func newEmitCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit FILE",
		Short: "Compile a single template to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			p, err := buildPipeline(file)
			if err != nil {
				return err
			}

			body, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := p.Compile(cmd.Context(), pipeline.Request{
				Source:      body,
				Filename:    args[0],
				Basename:    filepath.Base(args[0]),
				LogicalPath: opts.logicalPath,
				Locals:      file.Locals,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), res.JavaScript)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.logicalPath, "logical-path", "", "name the template by this path instead of its file name")
	return cmd
}

// resolveConfig layers flags over the config file.
func resolveConfig(cmd *cobra.Command, opts *options) (config.File, error) {
	var file config.File

	path := opts.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.File{}, err
		}
		file = loaded
		log.Debug().Str("path", path).Msg("Loaded config")
	}

	flags := cmd.Flags()
	if flags.Changed("profile") {
		if _, err := emitter.ParseProfile(opts.profile); err != nil {
			return config.File{}, err
		}
		file.Profile = opts.profile
	}
	if flags.Changed("templates-root") {
		file.TemplatesRoot = opts.templatesRoot
	}
	if flags.Changed("destination") {
		file.Destination = opts.destination
	}
	if flags.Changed("compiler") {
		file.Compiler = opts.compiler
	}
	if flags.Changed("partial-method") {
		file.PartialMethod = opts.partialMethod
	}
	if flags.Changed("renderer") {
		file.Renderer = opts.renderer
	}
	if flags.Changed("sanitize") {
		file.Sanitize = opts.sanitize
	}
	if flags.Changed("check") {
		file.Check = opts.check
	}
	if flags.Lookup("output") != nil && flags.Changed("output") {
		file.Output = opts.output
	}
	return file, nil
}

func buildPipeline(file config.File) (*pipeline.Pipeline, error) {
	cfg, err := file.EmitterConfig()
	if err != nil {
		return nil, err
	}
	options := []pipeline.Option{
		pipeline.WithConfig(cfg),
		pipeline.WithLogger(logging.GetLogger("pipeline")),
	}
	if file.Sanitize {
		options = append(options, pipeline.WithSanitizer(bluemonday.UGCPolicy()))
	}
	if file.Check {
		options = append(options, pipeline.WithSyntaxCheck(true))
	}
	if file.Renderer != "" {
		options = append(options, pipeline.WithDefaultRenderer(file.Renderer))
	}
	return pipeline.New(options...), nil
}

func compileOnce(cmd *cobra.Command, p *pipeline.Pipeline, dir string, file config.File) error {
	defer logging.LogDuration(time.Now(), "compile")

	bundle, err := p.CompileFS(cmd.Context(), os.DirFS(dir), ".", file.Locals)
	if err != nil {
		return err
	}
	if file.Output == "" {
		_, err = bundle.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := bundle.WriteFile(file.Output); err != nil {
		return err
	}
	log.Info().Str("output", file.Output).Int("templates", len(bundle.Results)).Msg("Bundle written")
	return nil
}

func watchAndCompile(cmd *cobra.Command, p *pipeline.Pipeline, dir string, file config.File) error {
	cfg := watcher.DefaultConfig(dir)
	cfg.Relevant = func(name string) bool {
		_, err := p.Registry().ForFile(name)
		return err == nil
	}
	w, err := watcher.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	log.Info().Str("dir", dir).Msg("Watching for changes")

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors():
			log.Warn().Err(err).Msg("Watch error")
		case <-changes:
			if err := compileOnce(cmd, p, dir, file); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					log.Warn().Err(err).Msg("Template vanished during compile")
					continue
				}
				log.Error().Err(err).Msg("Compile failed")
			}
		}
	}
}
