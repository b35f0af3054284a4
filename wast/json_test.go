package wast

import (
	"testing"

	"github.com/wippyai/wast-script/errors"
)

const sampleSpec = `{
  "source_filename": "test.wast",
  "commands": [
    {"type": "module", "line": 1, "filename": "test.0.wasm"},
    {"type": "assert_return", "line": 9,
     "action": {"type": "invoke", "field": "sub",
       "args": [{"type": "i32", "value": "8"}, {"type": "i32", "value": "3"}]},
     "expected": [{"type": "i32", "value": "5"}]},
    {"type": "register", "line": 12, "name": "$m", "as_name": "mod"},
    {"type": "assert_trap", "line": 15,
     "action": {"type": "invoke", "module": "$m", "field": "div"},
     "text": "integer divide by zero"}
  ]
}`

func TestParseSpec(t *testing.T) {
	spec, err := ParseSpec([]byte(sampleSpec))
	if err != nil {
		t.Fatalf("ParseSpec failed: %v", err)
	}

	if spec.SourceFilename != "test.wast" {
		t.Errorf("unexpected source filename %q", spec.SourceFilename)
	}
	if len(spec.Commands) != 4 {
		t.Fatalf("expected 4 commands, got %d", len(spec.Commands))
	}

	mod := spec.Commands[0]
	if mod.Type != TypeModule || mod.Line != 1 || mod.Filename != "test.0.wasm" {
		t.Errorf("unexpected module command: %+v", mod)
	}
	if mod.Name != nil {
		t.Errorf("expected absent name, got %q", *mod.Name)
	}

	ar := spec.Commands[1]
	if ar.Action == nil || ar.Action.Type != ActionInvoke || ar.Action.Field != "sub" {
		t.Fatalf("unexpected assert_return action: %+v", ar.Action)
	}
	if ar.Action.Module != nil {
		t.Error("expected absent action module")
	}
	if len(ar.Action.Args) != 2 || ar.Action.Args[1].Value != "3" {
		t.Errorf("unexpected args: %+v", ar.Action.Args)
	}
	if len(ar.Expected) != 1 || ar.Expected[0].Type != "i32" || ar.Expected[0].Value != "5" {
		t.Errorf("unexpected expected list: %+v", ar.Expected)
	}

	reg := spec.Commands[2]
	if reg.Name == nil || *reg.Name != "$m" || reg.AsName != "mod" {
		t.Errorf("unexpected register command: %+v", reg)
	}

	trap := spec.Commands[3]
	if trap.Text != "integer divide by zero" {
		t.Errorf("unexpected trap text %q", trap.Text)
	}
	if trap.Action.Module == nil || *trap.Action.Module != "$m" {
		t.Error("expected action module $m")
	}
}

func TestParseSpec_Empty(t *testing.T) {
	spec, err := ParseSpec([]byte(`{"source_filename": "empty.wast", "commands": []}`))
	if err != nil {
		t.Fatalf("ParseSpec failed: %v", err)
	}
	if len(spec.Commands) != 0 {
		t.Errorf("expected no commands, got %d", len(spec.Commands))
	}
}

func TestParseSpec_Malformed(t *testing.T) {
	_, err := ParseSpec([]byte(`{"commands": "not-a-list"}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsKind(err, errors.KindMalformed) {
		t.Errorf("expected malformed kind, got %v", err)
	}
}
