package wabt

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	wastscript "github.com/wippyai/wast-script"
	"github.com/wippyai/wast-script/errors"
)

// WASITool hosts a WASI build of wast2json inside wazero. The guest sees
// the output directory mounted at /, reads the staged script from there
// and writes its artifacts next to it.
//
// The tool module is compiled once at construction and cached; each
// compilation instantiates a fresh guest. Close releases the wazero
// runtime.
type WASITool struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	features wastscript.Features
}

// WASIToolOption configures a WASITool.
type WASIToolOption func(*WASITool)

// WithWASIFeatures sets the wasm proposals passed to the compiler as
// --enable flags.
func WithWASIFeatures(f wastscript.Features) WASIToolOption {
	return func(t *WASITool) { t.features = f }
}

// NewWASITool creates a wazero-hosted wast2json from the tool's wasm
// binary.
func NewWASITool(ctx context.Context, toolBinary []byte, opts ...WASIToolOption) (*WASITool, error) {
	cache := wazero.NewCompilationCache()
	runtime := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCompilationCache(cache))
	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	compiled, err := runtime.CompileModule(ctx, toolBinary)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, errors.Compiler("compile wast2json tool module", err)
	}

	t := &WASITool{runtime: runtime, compiled: compiled}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Close releases the wazero runtime and the compiled tool module.
func (t *WASITool) Close(ctx context.Context) error {
	return t.runtime.Close(ctx)
}

// CompileScriptToDir stages the script into outDir, runs the guest
// compiler over it and returns the JSON document's path.
func (t *WASITool) CompileScriptToDir(ctx context.Context, scriptPath, outDir string) (string, error) {
	source, err := os.ReadFile(scriptPath)
	if err != nil {
		return "", errors.IO(errors.PhaseCompile, "read script source", err)
	}

	base := filepath.Base(scriptPath)
	staged := filepath.Join(outDir, base)
	if staged != scriptPath {
		if err := os.WriteFile(staged, source, 0o600); err != nil {
			return "", errors.IO(errors.PhaseCompile, "stage script source", err)
		}
	}

	jsonFile := jsonName(scriptPath)
	args := append([]string{"wast2json"}, featureFlags(t.features)...)
	args = append(args, "-o", "/"+jsonFile, "/"+base)

	var stderr bytes.Buffer
	cfg := wazero.NewModuleConfig().
		WithStderr(&stderr).
		WithSysNanosleep().
		WithSysNanotime().
		WithSysWalltime().
		WithFSConfig(wazero.NewFSConfig().WithDirMount(outDir, "/")).
		WithArgs(args...)

	mod, err := t.runtime.InstantiateModule(ctx, t.compiled, cfg)
	if mod != nil {
		defer mod.Close(ctx)
	}
	if err != nil {
		if exitErr, ok := err.(*sys.ExitError); !ok || exitErr.ExitCode() != 0 {
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				detail = "wast2json guest failed"
			}
			return "", errors.Compiler(detail, err)
		}
	}

	return filepath.Join(outDir, jsonFile), nil
}

// CompileScript compiles source entirely in memory, like Tool.
func (t *WASITool) CompileScript(ctx context.Context, source []byte, scriptName string) (*wastscript.CompileResult, error) {
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
