package wabt

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	wastscript "github.com/wippyai/wast-script"
	"github.com/wippyai/wast-script/errors"
	"github.com/wippyai/wast-script/wast"
)

// DefaultToolName is the executable looked up in $PATH when no explicit
// path is configured.
const DefaultToolName = "wast2json"

// Tool invokes a native wast2json executable.
type Tool struct {
	path     string
	features wastscript.Features
}

// ToolOption configures a Tool.
type ToolOption func(*Tool)

// WithPath sets the wast2json executable path.
func WithPath(path string) ToolOption {
	return func(t *Tool) { t.path = path }
}

// WithFeatures sets the wasm proposals passed to the compiler as
// --enable flags.
func WithFeatures(f wastscript.Features) ToolOption {
	return func(t *Tool) { t.features = f }
}

// NewTool creates a native wast2json client.
func NewTool(opts ...ToolOption) *Tool {
	t := &Tool{path: DefaultToolName}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CompileScriptToDir runs wast2json on scriptPath, placing the JSON
// document and module binaries in outDir. Returns the JSON document's
// path.
func (t *Tool) CompileScriptToDir(ctx context.Context, scriptPath, outDir string) (string, error) {
	jsonPath := filepath.Join(outDir, jsonName(scriptPath))

	args := append(featureFlags(t.features), "-o", jsonPath, scriptPath)
	cmd := exec.CommandContext(ctx, t.path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "wast2json failed"
		}
		return "", errors.Compiler(detail, err)
	}
	return jsonPath, nil
}

// CompileScript compiles source entirely in memory: the script is staged
// in a temporary directory, compiled, and all artifacts are read back
// before the directory is removed.
func (t *Tool) CompileScript(ctx context.Context, source []byte, scriptName string) (*wastscript.CompileResult, error) {
	tmpDir, err := os.MkdirTemp("", "wast-compile-")
	if err != nil {
		return nil, errors.IO(errors.PhaseCompile, "create compile dir", err)
	}
	defer os.RemoveAll(tmpDir)

	scriptPath := filepath.Join(tmpDir, filepath.Base(scriptName))
	if err := os.WriteFile(scriptPath, source, 0o600); err != nil {
		return nil, errors.IO(errors.PhaseCompile, "stage script source", err)
	}

	jsonPath, err := t.CompileScriptToDir(ctx, scriptPath, tmpDir)
	if err != nil {
		return nil, err
	}
	return collectResult(tmpDir, jsonPath)
}

// collectResult reads the JSON document and every module binary it
// references out of dir.
func collectResult(dir, jsonPath string) (*wastscript.CompileResult, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, errors.IO(errors.PhaseCompile, "read intermediate JSON", err)
	}

	spec, err := wast.ParseSpec(data)
	if err != nil {
		return nil, err
	}

	modules := make(map[string][]byte)
	for i := range spec.Commands {
		name := spec.Commands[i].Filename
		if name == "" {
			continue
		}
		if _, ok := modules[name]; ok {
			continue
		}
		wasm, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.IO(errors.PhaseCompile, "read module binary "+name, err)
		}
		modules[name] = wasm
	}

	return &wastscript.CompileResult{JSON: data, Modules: modules}, nil
}

// jsonName derives the JSON artifact name from the script filename:
// i32.wast becomes i32.json.
func jsonName(scriptPath string) string {
	base := filepath.Base(scriptPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// featureFlags maps Features onto wast2json --enable flags.
func featureFlags(f wastscript.Features) []string {
	var flags []string
	if f.Exceptions {
		flags = append(flags, "--enable-exceptions")
	}
	if f.MutableGlobals {
		flags = append(flags, "--enable-mutable-globals")
	}
	if f.SatFloatToInt {
		flags = append(flags, "--enable-saturating-float-to-int")
	}
	if f.SignExtension {
		flags = append(flags, "--enable-sign-extension")
	}
	if f.SIMD {
		flags = append(flags, "--enable-simd")
	}
	if f.Threads {
		flags = append(flags, "--enable-threads")
	}
	if f.MultiValue {
		flags = append(flags, "--enable-multi-value")
	}
	if f.TailCall {
		flags = append(flags, "--enable-tail-call")
	}
	if f.BulkMemory {
		flags = append(flags, "--enable-bulk-memory")
	}
	return flags
}
