package spec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	wastscript "github.com/wippyai/wast-script"
	"github.com/wippyai/wast-script/errors"
	"github.com/wippyai/wast-script/script"
	"github.com/wippyai/wast-script/wabt"
	"github.com/wippyai/wast-script/wast"
)

// Runner compiles a script file and pushes its commands through a
// Visitor. A Runner is stateless between runs and safe for concurrent
// use as long as its compiler is.
type Runner struct {
	compiler wastscript.DirCompiler
	floats   script.FloatDecoder
	logger   *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerConfig)

type runnerConfig struct {
	compiler wastscript.DirCompiler
	floats   script.FloatDecoder
	logger   *zap.Logger
	features wastscript.Features
}

// WithCompiler selects the external compiler. Defaults to a native
// wast2json found in $PATH.
func WithCompiler(c wastscript.DirCompiler) RunnerOption {
	return func(cfg *runnerConfig) { cfg.compiler = c }
}

// WithFloats selects the float representation passed to visitor
// callbacks. Defaults to script.NativeFloats.
func WithFloats(f script.FloatDecoder) RunnerOption {
	return func(cfg *runnerConfig) { cfg.floats = f }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(cfg *runnerConfig) { cfg.logger = l }
}

// WithFeatures sets the wasm proposals the default compiler accepts.
// Ignored when WithCompiler is also given.
func WithFeatures(f wastscript.Features) RunnerOption {
	return func(cfg *runnerConfig) { cfg.features = f }
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	cfg := runnerConfig{
		floats: script.NativeFloats{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.compiler == nil {
		cfg.compiler = wabt.NewTool(wabt.WithFeatures(cfg.features))
	}
	return &Runner{compiler: cfg.compiler, floats: cfg.floats, logger: cfg.logger}
}

// Run compiles the script at path and dispatches every command to v in
// script order. The walk stops at the first error, whether it comes
// from the infrastructure or from a visitor callback; callback errors
// are wrapped and recoverable through errors.AsCallback.
func (r *Runner) Run(ctx context.Context, path string, v Visitor) error {
	if !strings.HasSuffix(path, ".wast") {
		return errors.InvalidInput(errors.PhaseLoad,
			fmt.Sprintf("script %q must have a .wast extension", path))
	}
	if _, err := os.Stat(path); err != nil {
		return errors.IO(errors.PhaseLoad, "stat script", err)
	}

	outDir, err := os.MkdirTemp("", "wast-run-")
	if err != nil {
		return errors.IO(errors.PhaseLoad, "create output dir", err)
	}
	defer os.RemoveAll(outDir)

	r.logger.Debug("compiling script",
		zap.String("path", path),
		zap.String("out_dir", outDir))

	jsonPath, err := r.compiler.CompileScriptToDir(ctx, path, outDir)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return errors.IO(errors.PhaseLoad, "read intermediate JSON", err)
	}
	doc, err := wast.ParseSpec(data)
	if err != nil {
		return err
	}

	r.logger.Debug("walking script",
		zap.String("source", doc.SourceFilename),
		zap.Int("commands", len(doc.Commands)))

	if err := v.BeginScript(doc.SourceFilename); err != nil {
		return errors.Callback(err)
	}

	for i := range doc.Commands {
		cmd := &doc.Commands[i]
		r.logger.Debug("visiting command",
			zap.String("type", cmd.Type),
			zap.Uint64("line", cmd.Line))
		if err := r.visit(outDir, cmd, v); err != nil {
			return errors.WithLine(err, cmd.Line)
		}
	}
	return nil
}

// visit dispatches one command. Callback errors come back wrapped in
// *errors.CallbackError; everything else is an infrastructure failure.
func (r *Runner) visit(outDir string, cmd *wast.Command, v Visitor) error {
	switch cmd.Type {
	case wast.TypeModule:
		wasm, err := r.readModule(outDir, cmd)
		if err != nil {
			return err
		}
		return callback(v.Module(cmd.Line, optName(cmd.Name), wasm))

	case wast.TypeAssertReturn:
		action, err := script.DecodeAction(cmd.Action, r.floats)
		if err != nil {
			return err
		}
		expected, err := script.DecodeValues(cmd.Expected, r.floats)
		if err != nil {
			return err
		}
		return callback(v.AssertReturn(cmd.Line, action, expected))

	case wast.TypeAssertReturnCanonicalNan:
		action, err := script.DecodeAction(cmd.Action, r.floats)
		if err != nil {
			return err
		}
		return callback(v.AssertReturnCanonicalNan(cmd.Line, action))

	case wast.TypeAssertReturnArithmeticNan:
		action, err := script.DecodeAction(cmd.Action, r.floats)
		if err != nil {
			return err
		}
		return callback(v.AssertReturnArithmeticNan(cmd.Line, action))

	case wast.TypeAssertTrap:
		action, err := script.DecodeAction(cmd.Action, r.floats)
		if err != nil {
			return err
		}
		return callback(v.AssertTrap(cmd.Line, action, cmd.Text))

	case wast.TypeAssertInvalid:
		wasm, err := r.readModule(outDir, cmd)
		if err != nil {
			return err
		}
		return callback(v.AssertInvalid(cmd.Line, wasm, cmd.Text))

	case wast.TypeAssertMalformed:
		wasm, err := r.readModule(outDir, cmd)
		if err != nil {
			return err
		}
		return callback(v.AssertMalformed(cmd.Line, wasm, cmd.Text))

	case wast.TypeAssertUninstantiable:
		wasm, err := r.readModule(outDir, cmd)
		if err != nil {
			return err
		}
		return callback(v.AssertUninstantiable(cmd.Line, wasm, cmd.Text))

	case wast.TypeAssertExhaustion:
		action, err := script.DecodeAction(cmd.Action, r.floats)
		if err != nil {
			return err
		}
		return callback(v.AssertExhaustion(cmd.Line, action))

	case wast.TypeAssertUnlinkable:
		wasm, err := r.readModule(outDir, cmd)
		if err != nil {
			return err
		}
		return callback(v.AssertUnlinkable(cmd.Line, wasm, cmd.Text))

	case wast.TypeRegister:
		if cmd.AsName == "" {
			return errors.Malformed(errors.PhaseRun, "register command missing as_name", nil)
		}
		return callback(v.Register(cmd.Line, optName(cmd.Name), cmd.AsName))

	case wast.TypeAction:
		action, err := script.DecodeAction(cmd.Action, r.floats)
		if err != nil {
			return err
		}
		return callback(v.PerformAction(cmd.Line, action))

	default:
		return errors.Malformed(errors.PhaseRun,
			fmt.Sprintf("unknown command type %q", cmd.Type), *cmd)
	}
}

// readModule loads the command's module binary fresh from the compiler
// output directory.
func (r *Runner) readModule(outDir string, cmd *wast.Command) ([]byte, error) {
	if cmd.Filename == "" {
		return nil, errors.Malformed(errors.PhaseRun,
			fmt.Sprintf("%s command missing module filename", cmd.Type), *cmd)
	}
	wasm, err := os.ReadFile(filepath.Join(outDir, cmd.Filename))
	if err != nil {
		return nil, errors.IO(errors.PhaseRun, "read module binary "+cmd.Filename, err)
	}
	return wasm, nil
}

func callback(err error) error {
	if err == nil {
		return nil
	}
	return errors.Callback(err)
}

func optName(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}
