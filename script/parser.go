package script

import (
	"context"
	"fmt"
	"strings"

	wastscript "github.com/wippyai/wast-script"
	"github.com/wippyai/wast-script/errors"
	"github.com/wippyai/wast-script/wabt"
	"github.com/wippyai/wast-script/wast"
)

// Option configures a Parser.
type Option func(*config)

type config struct {
	compiler wastscript.Compiler
	floats   FloatDecoder
	features wastscript.Features
}

// WithCompiler selects the external compiler used to turn the script into
// its intermediate form. Defaults to a native wast2json found in $PATH.
func WithCompiler(c wastscript.Compiler) Option {
	return func(cfg *config) { cfg.compiler = c }
}

// WithFloats selects the float representation for decoded values.
// Defaults to NativeFloats.
func WithFloats(f FloatDecoder) Option {
	return func(cfg *config) { cfg.floats = f }
}

// WithFeatures sets the wasm proposals the default compiler accepts.
// Ignored when WithCompiler is also given; configure the custom compiler
// directly instead.
func WithFeatures(f wastscript.Features) Option {
	return func(cfg *config) { cfg.features = f }
}

// Parser pulls normalized commands out of one compiled script.
//
// Construction performs exactly one external compilation; Next never
// touches the compiler or the file system again. The cursor only moves
// forward: once the command list is exhausted, Next keeps returning
// (nil, nil). A Parser is not safe for concurrent use.
type Parser struct {
	sourceFilename string
	commands       []wast.Command
	store          *BinaryStore
	floats         FloatDecoder
	cursor         int
}

// NewParser compiles the script in source and prepares to iterate its
// commands. scriptName must have a .wast extension; it names the script
// in compiler diagnostics and derives the artifact filenames.
func NewParser(ctx context.Context, source []byte, scriptName string, opts ...Option) (*Parser, error) {
	cfg := config{floats: NativeFloats{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !strings.HasSuffix(scriptName, ".wast") {
		return nil, errors.InvalidInput(errors.PhaseLoad,
			fmt.Sprintf("script name %q must have a .wast extension", scriptName))
	}

	compiler := cfg.compiler
	if compiler == nil {
		compiler = wabt.NewTool(wabt.WithFeatures(cfg.features))
	}

	result, err := compiler.CompileScript(ctx, source, scriptName)
	if err != nil {
		return nil, err
	}

	spec, err := wast.ParseSpec(result.JSON)
	if err != nil {
		return nil, err
	}

	return &Parser{
		sourceFilename: spec.SourceFilename,
		commands:       spec.Commands,
		store:          NewBinaryStore(result.Modules),
		floats:         cfg.floats,
	}, nil
}

// Parse compiles an in-memory script under the placeholder name
// "test.wast".
func Parse(ctx context.Context, source string, opts ...Option) (*Parser, error) {
	return NewParser(ctx, []byte(source), "test.wast", opts...)
}

// SourceFilename returns the script name recorded in the intermediate
// form.
func (p *Parser) SourceFilename() string { return p.sourceFilename }

// Len returns the total number of commands in the script.
func (p *Parser) Len() int { return len(p.commands) }

// Next returns the next command, or (nil, nil) once the script is
// exhausted. Exhaustion is terminal. On a decode error the cursor stays
// on the failed command; callers should stop at the first error rather
// than retry.
func (p *Parser) Next() (*Command, error) {
	if p.cursor >= len(p.commands) {
		return nil, nil
	}
	cmd, err := decodeCommand(&p.commands[p.cursor], p.store, p.floats)
	if err != nil {
		return nil, err
	}
	p.cursor++
	return cmd, nil
}
