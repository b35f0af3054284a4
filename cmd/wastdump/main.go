package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	wastscript "github.com/wippyai/wast-script"
	"github.com/wippyai/wast-script/script"
	"github.com/wippyai/wast-script/wabt"
)

func main() {
	var (
		file        = flag.String("file", "", "Path to wast script file")
		toolPath    = flag.String("wast2json", wabt.DefaultToolName, "Path to the wast2json executable")
		enable      = flag.String("enable", "", "Wasm proposals to enable (comma-separated, or 'all')")
		rawBits     = flag.Bool("raw", false, "Show floats as raw bit patterns")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: wastdump -file <suite.wast> [-enable simd,threads] [-raw]")
		fmt.Fprintln(os.Stderr, "       wastdump -file <suite.wast> -i  (interactive mode)")
		os.Exit(1)
	}

	features, err := parseFeatures(*enable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	var floats script.FloatDecoder = script.NativeFloats{}
	if *rawBits {
		floats = script.RawBits{}
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*file, *toolPath, features, floats); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := dump(*file, *toolPath, features, floats, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dump(file, toolPath string, features wastscript.Features, floats script.FloatDecoder, logger *zap.Logger) error {
	ctx := context.Background()

	source, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	logger.Debug("compiling script",
		zap.String("file", file),
		zap.String("tool", toolPath))

	tool := wabt.NewTool(wabt.WithPath(toolPath), wabt.WithFeatures(features))
	parser, err := script.NewParser(ctx, source, file,
		script.WithCompiler(tool),
		script.WithFloats(floats))
	if err != nil {
		return err
	}

	fmt.Printf("Script: %s\n", parser.SourceFilename())
	fmt.Printf("Commands: %d\n\n", parser.Len())

	for {
		cmd, err := parser.Next()
		if err != nil {
			return err
		}
		if cmd == nil {
			return nil
		}
		fmt.Printf("%5d  %s\n", cmd.Line, formatKind(cmd.Kind))
	}
}

// parseFeatures turns a comma-separated proposal list into Features.
func parseFeatures(s string) (wastscript.Features, error) {
	var f wastscript.Features
	if s == "" {
		return f, nil
	}
	if s == "all" {
		f.EnableAll()
		return f, nil
	}
	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(name) {
		case "exceptions":
			f.Exceptions = true
		case "mutable-globals":
			f.MutableGlobals = true
		case "saturating-float-to-int":
			f.SatFloatToInt = true
		case "sign-extension":
			f.SignExtension = true
		case "simd":
			f.SIMD = true
		case "threads":
			f.Threads = true
		case "multi-value":
			f.MultiValue = true
		case "tail-call":
			f.TailCall = true
		case "bulk-memory":
			f.BulkMemory = true
		default:
			return f, fmt.Errorf("unknown feature %q", name)
		}
	}
	return f, nil
}

// formatKind renders one command as a single summary line.
func formatKind(kind script.CommandKind) string {
	switch k := kind.(type) {
	case *script.Module:
		name := k.Name
		if name == "" {
			name = "<anonymous>"
		}
		return fmt.Sprintf("module %s (%d bytes)", name, k.Module.Len())
	case *script.AssertReturn:
		return fmt.Sprintf("assert_return %s => %s", formatAction(k.Action), formatValues(k.Expected))
	case *script.AssertReturnCanonicalNan:
		return fmt.Sprintf("assert_return_canonical_nan %s", formatAction(k.Action))
	case *script.AssertReturnArithmeticNan:
		return fmt.Sprintf("assert_return_arithmetic_nan %s", formatAction(k.Action))
	case *script.AssertTrap:
		return fmt.Sprintf("assert_trap %s => %q", formatAction(k.Action), k.Message)
	case *script.AssertInvalid:
		return fmt.Sprintf("assert_invalid (%d bytes) => %q", k.Module.Len(), k.Message)
	case *script.AssertMalformed:
		return fmt.Sprintf("assert_malformed (%d bytes) => %q", k.Module.Len(), k.Message)
	case *script.AssertUninstantiable:
		return fmt.Sprintf("assert_uninstantiable (%d bytes) => %q", k.Module.Len(), k.Message)
	case *script.AssertExhaustion:
		return fmt.Sprintf("assert_exhaustion %s", formatAction(k.Action))
	case *script.AssertUnlinkable:
		return fmt.Sprintf("assert_unlinkable (%d bytes) => %q", k.Module.Len(), k.Message)
	case *script.Register:
		if k.Name == "" {
			return fmt.Sprintf("register last module as %q", k.As)
		}
		return fmt.Sprintf("register %s as %q", k.Name, k.As)
	case *script.PerformAction:
		return fmt.Sprintf("action %s", formatAction(k.Action))
	default:
		return fmt.Sprintf("%T", kind)
	}
}

func formatAction(a script.Action) string {
	switch act := a.(type) {
	case *script.Invoke:
		target := act.Field
		if act.Module != "" {
			target = act.Module + "." + act.Field
		}
		return fmt.Sprintf("invoke %s(%s)", target, formatValueList(act.Args))
	case *script.Get:
		if act.Module != "" {
			return fmt.Sprintf("get %s.%s", act.Module, act.Field)
		}
		return fmt.Sprintf("get %s", act.Field)
	default:
		return fmt.Sprintf("%T", a)
	}
}

func formatValues(vals []script.Value) string {
	return "[" + formatValueList(vals) + "]"
}

func formatValueList(vals []script.Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v script.Value) string {
	switch val := v.(type) {
	case script.I32:
		return fmt.Sprintf("i32:%d", int32(val))
	case script.I64:
		return fmt.Sprintf("i64:%d", int64(val))
	case script.F32:
		return fmt.Sprintf("f32:%g", float32(val))
	case script.F64:
		return fmt.Sprintf("f64:%g", float64(val))
	case script.F32Bits:
		return fmt.Sprintf("f32:bits:%#08x", uint32(val))
	case script.F64Bits:
		return fmt.Sprintf("f64:bits:%#016x", uint64(val))
	default:
		return fmt.Sprintf("%v", v)
	}
}
