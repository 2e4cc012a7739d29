package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KevinPriv/canvas-lang/core/ast"
	"github.com/KevinPriv/canvas-lang/core/astfmt"
	"github.com/KevinPriv/canvas-lang/core/astfmt/formatter"
	"github.com/KevinPriv/canvas-lang/core/command"
	"github.com/KevinPriv/canvas-lang/internal/canvas"
	"github.com/KevinPriv/canvas-lang/runtime"
	"github.com/KevinPriv/canvas-lang/runtime/lexer"
	"github.com/KevinPriv/canvas-lang/runtime/parser"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "v0.1.0"

func main() {
	a := newApp()
	if err := newRootCmd(a).Execute(); err != nil {
		FormatError(os.Stderr, err, ShouldUseColor(a.noColor))
		os.Exit(1)
	}
}

// app carries the streams and settings shared by every subcommand
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	piped  func() bool

	configPath string
	logLevel   string
	noColor    bool

	config   Config
	logger   *slog.Logger
	useColor bool
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		piped:  hasPipedInput,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "canvas",
		Short:         "Run canvas drawing scripts",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigFile, "Path to config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newRunCmd(a),
		newCheckCmd(a),
		newTokensCmd(a),
		newASTCmd(a),
		newCommandsCmd(a),
	)
	return rootCmd
}

// setup loads configuration and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if err := cfg.checkVersion(version); err != nil {
		return err
	}
	a.config = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	if os.Getenv("CANVAS_DEBUG") != "" {
		level = "debug"
	}

	logger, err := newLogger(a.stderr, level)
	if err != nil {
		return err
	}
	a.logger = logger
	a.useColor = ShouldUseColor(a.noColor)
	return nil
}

// newLogger builds a text logger without timestamp or level noise
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, &CLIError{
			Type:    "usage",
			Message: fmt.Sprintf("unknown log level %q", level),
			Hint:    "use debug, info, warn or error",
		}
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	})), nil
}

func newRunCmd(a *app) *cobra.Command {
	var (
		svgPath  string
		watch    bool
		maxSteps int
	)

	cmd := &cobra.Command{
		Use:   "run [FILE]",
		Short: "Execute a script and render the canvas as SVG",
		Long: `Execute a script against an in-memory canvas and write the drawing as SVG.
FILE may be - to read the script from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.scriptPath(args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-steps") {
				a.config.MaxSteps = maxSteps
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watch {
				return a.watch(ctx, path, svgPath)
			}

			program, err := a.load(path)
			if err != nil {
				return err
			}
			svg, err := a.render(ctx, program)
			if err != nil {
				return err
			}
			return a.writeSVG(svg, svgPath)
		},
	}

	cmd.Flags().StringVarP(&svgPath, "svg", "o", "", "Write SVG to this file instead of stdout")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run whenever the script changes")
	cmd.Flags().IntVar(&maxSteps, "max-steps", defaultMaxSteps, "Stop after this many steps (0 = unlimited)")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [FILE]",
		Short: "Parse a script without running it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.scriptPath(args)
			if err != nil {
				return err
			}
			program, err := a.load(path)
			if err != nil {
				return err
			}
			fingerprint, err := astfmt.Fingerprint(program)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(a.stdout, "%s %s: %d statements, %s\n",
				Colorize("ok", ColorGreen, a.useColor), path, len(program.Statements), fingerprint)
			return nil
		},
	}
}

func newTokensCmd(a *app) *cobra.Command {
	var keywords bool

	cmd := &cobra.Command{
		Use:   "tokens [FILE]",
		Short: "Print the token stream of a script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.scriptPath(args)
			if err != nil {
				return err
			}
			script, err := a.readScript(path)
			if err != nil {
				return err
			}

			var opts []lexer.LexerOpt
			if keywords {
				opts = append(opts, lexer.WithKeywords())
			}
			for _, tok := range lexer.Lex(script, opts...) {
				_, _ = fmt.Fprintf(a.stdout, "%4d  %-10s  %q\n", tok.Line, tok.Type, tok.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&keywords, "keywords", false, "Classify statement words as KEYWORD")
	return cmd
}

func newASTCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ast [FILE]",
		Short: "Print the parsed program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.scriptPath(args)
			if err != nil {
				return err
			}
			program, err := a.load(path)
			if err != nil {
				return err
			}

			switch format {
			case "tree":
				formatter.FormatTree(a.stdout, path, program, a.useColor)
				return nil
			case "cbor":
				return a.printCanonical(program)
			default:
				return &CLIError{
					Type:    "usage",
					Message: fmt.Sprintf("unknown format %q", format),
					Hint:    "use --format tree or --format cbor",
				}
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "tree", "Output format: tree or cbor")
	return cmd
}

// printCanonical prints the canonical encoding as hex, then its fingerprint
func (a *app) printCanonical(program *ast.Block) error {
	cp, err := astfmt.Canonicalize(program)
	if err != nil {
		return err
	}
	data, err := cp.MarshalBinary()
	if err != nil {
		return err
	}
	hash, err := cp.Hash()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(a.stdout, hex.EncodeToString(data))
	_, _ = fmt.Fprintf(a.stdout, "blake2b:%x\n", hash)
	return nil
}

func newCommandsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the drawing commands scripts can call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range a.newCanvas().Registry().Commands() {
				name := c.Name()
				if aliases := c.Aliases(); len(aliases) > 0 {
					name += " (" + strings.Join(aliases, ", ") + ")"
				}
				var usage string
				if d, ok := c.(command.Describer); ok {
					usage = d.Usage()
				}
				_, _ = fmt.Fprintf(a.stdout, "  %-20s %s\n", Colorize(name, ColorGreen, a.useColor), usage)
			}
			return nil
		},
	}
}

func (a *app) newCanvas() *canvas.Canvas {
	return canvas.New(
		canvas.WithSize(a.config.Width, a.config.Height),
		canvas.WithPen(a.config.Pen),
	)
}

// load reads and parses a script
func (a *app) load(path string) (*ast.Block, error) {
	script, err := a.readScript(path)
	if err != nil {
		return nil, err
	}
	return parser.ParseString(script)
}

// render runs program on a fresh canvas and returns the drawing
func (a *app) render(ctx context.Context, program *ast.Block) (string, error) {
	c := a.newCanvas()
	result, err := runtime.ExecuteProgram(ctx, program, c.Dispatcher(), runtime.ExecutionOptions{
		MaxSteps: a.config.MaxSteps,
		Logger:   a.logger,
	})
	if err != nil {
		return "", err
	}

	a.logger.Info("rendered",
		"statements", result.Statements,
		"commands", result.Commands,
		"shapes", len(c.Shapes()))
	return c.SVG(), nil
}

func (a *app) writeSVG(svg, path string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(a.stdout, svg)
		return err
	}
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return &CLIError{
			Type:    "output",
			Message: fmt.Sprintf("cannot write %s", path),
			Details: err.Error(),
		}
	}
	a.logger.Info("wrote svg", "path", path)
	return nil
}
