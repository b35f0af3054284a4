package script

import (
	"context"
	"testing"

	wastscript "github.com/wippyai/wast-script"
	"github.com/wippyai/wast-script/errors"
)

// subWasm is a module exporting "sub": (i32, i32) -> i32.
var subWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x07, 0x01, 0x03, 0x73, 0x75, 0x62, 0x00, 0x00,
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6b, 0x0b,
}

// fakeCompiler returns a canned result without touching the real tool.
type fakeCompiler struct {
	result *wastscript.CompileResult
	err    error
	calls  int
}

func (f *fakeCompiler) CompileScript(_ context.Context, _ []byte, _ string) (*wastscript.CompileResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func subScriptResult() *wastscript.CompileResult {
	return &wastscript.CompileResult{
		JSON: []byte(`{
		  "source_filename": "sub.wast",
		  "commands": [
		    {"type": "module", "line": 1, "filename": "sub.0.wasm"},
		    {"type": "assert_return", "line": 6,
		     "action": {"type": "invoke", "field": "sub",
		       "args": [{"type": "i32", "value": "8"}, {"type": "i32", "value": "3"}]},
		     "expected": [{"type": "i32", "value": "5"}]}
		  ]
		}`),
		Modules: map[string][]byte{"sub.0.wasm": subWasm},
	}
}

func TestParser_SubScript(t *testing.T) {
	comp := &fakeCompiler{result: subScriptResult()}
	p, err := Parse(context.Background(), "(module ...)", WithCompiler(comp))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if comp.calls != 1 {
		t.Errorf("expected exactly one compilation, got %d", comp.calls)
	}
	if p.SourceFilename() != "sub.wast" {
		t.Errorf("unexpected source filename %q", p.SourceFilename())
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 commands, got %d", p.Len())
	}

	cmd, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Line != 1 {
		t.Errorf("expected line 1, got %d", cmd.Line)
	}
	mod, ok := cmd.Kind.(*Module)
	if !ok {
		t.Fatalf("expected *Module, got %T", cmd.Kind)
	}
	if mod.Name != "" {
		t.Errorf("expected anonymous module, got %q", mod.Name)
	}
	if b := mod.Module.Bytes(); len(b) < 4 || b[0] != 0 || b[1] != 97 || b[2] != 115 || b[3] != 109 {
		t.Errorf("module binary does not start with wasm magic: %v", b[:4])
	}

	cmd, err = p.Next()
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Line != 6 {
		t.Errorf("expected line 6, got %d", cmd.Line)
	}
	ar, ok := cmd.Kind.(*AssertReturn)
	if !ok {
		t.Fatalf("expected *AssertReturn, got %T", cmd.Kind)
	}
	inv, ok := ar.Action.(*Invoke)
	if !ok {
		t.Fatalf("expected *Invoke action, got %T", ar.Action)
	}
	if inv.Module != "" || inv.Field != "sub" {
		t.Errorf("unexpected invoke target: %+v", inv)
	}
	if len(inv.Args) != 2 || inv.Args[0] != I32(8) || inv.Args[1] != I32(3) {
		t.Errorf("unexpected args %v", inv.Args)
	}
	if len(ar.Expected) != 1 || ar.Expected[0] != I32(5) {
		t.Errorf("unexpected expected values %v", ar.Expected)
	}

	cmd, err = p.Next()
	if cmd != nil || err != nil {
		t.Errorf("expected exhaustion, got (%v, %v)", cmd, err)
	}
	cmd, err = p.Next()
	if cmd != nil || err != nil {
		t.Errorf("exhaustion must be terminal, got (%v, %v)", cmd, err)
	}
	if comp.calls != 1 {
		t.Errorf("iteration must not recompile, got %d calls", comp.calls)
	}
}

func TestParser_EmptyScript(t *testing.T) {
	comp := &fakeCompiler{result: &wastscript.CompileResult{
		JSON: []byte(`{"source_filename": "empty.wast", "commands": []}`),
	}}
	p, err := Parse(context.Background(), "", WithCompiler(comp))
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 0 {
		t.Errorf("expected no commands, got %d", p.Len())
	}
	cmd, err := p.Next()
	if cmd != nil || err != nil {
		t.Errorf("expected (nil, nil), got (%v, %v)", cmd, err)
	}
}

func TestNewParser_RejectsBadExtension(t *testing.T) {
	comp := &fakeCompiler{result: subScriptResult()}
	_, err := NewParser(context.Background(), []byte("(module)"), "notascript.txt", WithCompiler(comp))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("expected invalid_input kind, got %v", err)
	}
	if comp.calls != 0 {
		t.Errorf("compiler must not run for a rejected name, got %d calls", comp.calls)
	}
}

func TestNewParser_CompilerFailure(t *testing.T) {
	comp := &fakeCompiler{err: errors.Compiler("syntax error at 3:9", nil)}
	_, err := Parse(context.Background(), "(module (broken", WithCompiler(comp))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsKind(err, errors.KindCompiler) {
		t.Errorf("expected compiler kind, got %v", err)
	}
}

func TestParser_MissingBinaryInResult(t *testing.T) {
	comp := &fakeCompiler{result: &wastscript.CompileResult{
		JSON: []byte(`{"source_filename": "s.wast",
		  "commands": [{"type": "module", "line": 1, "filename": "s.0.wasm"}]}`),
	}}
	p, err := Parse(context.Background(), "(module)", WithCompiler(comp))
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Next()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsKind(err, errors.KindMalformed) {
		t.Errorf("expected malformed kind, got %v", err)
	}
}

func TestParser_RawBits(t *testing.T) {
	comp := &fakeCompiler{result: &wastscript.CompileResult{
		JSON: []byte(`{
		  "source_filename": "nan.wast",
		  "commands": [
		    {"type": "assert_return", "line": 2,
		     "action": {"type": "invoke", "field": "f",
		       "args": [{"type": "f32", "value": "2139095041"}]},
		     "expected": []}
		  ]
		}`),
	}}
	p, err := Parse(context.Background(), "(module)", WithCompiler(comp), WithFloats(RawBits{}))
	if err != nil {
		t.Fatal(err)
	}
	cmd, err := p.Next()
	if err != nil {
		t.Fatal(err)
	}
	ar := cmd.Kind.(*AssertReturn)
	arg := ar.Action.(*Invoke).Args[0]
	if arg != F32Bits(0x7F800001) {
		t.Errorf("raw bits must survive untouched, got %v", arg)
	}
}
