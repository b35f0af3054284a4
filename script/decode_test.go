package script

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/wast-script/errors"
	"github.com/wippyai/wast-script/wast"
)

func TestDecodeJSONString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii", "sub", "sub"},
		{"empty", "", ""},
		{"escaped BOM re-decodes to U+FEFF", "ï»¿", "\uFEFF"},
		{"escaped two-byte sequence", "Ã©", "é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeJSONString(tt.in)
			if err != nil {
				t.Fatalf("decodeJSONString failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeJSONString_InvalidResult(t *testing.T) {
	// A lone 0xFF byte is never valid UTF-8.
	_, err := decodeJSONString("ÿ")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsKind(err, errors.KindMalformed) {
		t.Errorf("expected malformed kind, got %v", err)
	}
}

func TestDecodeAction(t *testing.T) {
	mod := "$m"

	t.Run("invoke", func(t *testing.T) {
		a, err := DecodeAction(&wast.Action{
			Type:  wast.ActionInvoke,
			Field: "sub",
			Args:  []wast.RuntimeValue{rv("i32", "8"), rv("i32", "3")},
		}, NativeFloats{})
		if err != nil {
			t.Fatal(err)
		}
		inv, ok := a.(*Invoke)
		if !ok {
			t.Fatalf("expected *Invoke, got %T", a)
		}
		if inv.Module != "" || inv.Field != "sub" {
			t.Errorf("unexpected invoke: %+v", inv)
		}
		if len(inv.Args) != 2 || inv.Args[0] != I32(8) || inv.Args[1] != I32(3) {
			t.Errorf("unexpected args: %v", inv.Args)
		}
	})

	t.Run("get with module", func(t *testing.T) {
		a, err := DecodeAction(&wast.Action{
			Type:   wast.ActionGet,
			Module: &mod,
			Field:  "g",
		}, NativeFloats{})
		if err != nil {
			t.Fatal(err)
		}
		get, ok := a.(*Get)
		if !ok {
			t.Fatalf("expected *Get, got %T", a)
		}
		if get.Module != "$m" || get.Field != "g" {
			t.Errorf("unexpected get: %+v", get)
		}
	})

	t.Run("bad argument fails whole action", func(t *testing.T) {
		_, err := DecodeAction(&wast.Action{
			Type:  wast.ActionInvoke,
			Field: "f",
			Args:  []wast.RuntimeValue{rv("i32", "nope")},
		}, NativeFloats{})
		if !errors.IsKind(err, errors.KindValueDecode) {
			t.Errorf("expected value_decode kind, got %v", err)
		}
	})

	t.Run("unknown action type", func(t *testing.T) {
		_, err := DecodeAction(&wast.Action{Type: "poke", Field: "f"}, NativeFloats{})
		if !errors.IsKind(err, errors.KindMalformed) {
			t.Errorf("expected malformed kind, got %v", err)
		}
	})

	t.Run("missing action object", func(t *testing.T) {
		_, err := DecodeAction(nil, NativeFloats{})
		if !errors.IsKind(err, errors.KindMalformed) {
			t.Errorf("expected malformed kind, got %v", err)
		}
	})
}

func TestDecodeCommand_ModuleLookup(t *testing.T) {
	store := NewBinaryStore(map[string][]byte{
		"t.0.wasm": {0, 97, 115, 109},
	})

	t.Run("hit", func(t *testing.T) {
		cmd, err := decodeCommand(&wast.Command{
			Type: wast.TypeModule, Line: 3, Filename: "t.0.wasm",
		}, store, NativeFloats{})
		if err != nil {
			t.Fatal(err)
		}
		mod, ok := cmd.Kind.(*Module)
		if !ok {
			t.Fatalf("expected *Module, got %T", cmd.Kind)
		}
		if mod.Name != "" {
			t.Errorf("expected anonymous module, got name %q", mod.Name)
		}
		if got := mod.Module.Bytes(); len(got) != 4 || got[0] != 0 || got[1] != 97 {
			t.Errorf("unexpected binary %v", got)
		}
	})

	t.Run("miss is an internal-invariant failure", func(t *testing.T) {
		_, err := decodeCommand(&wast.Command{
			Type: wast.TypeAssertInvalid, Line: 7, Filename: "t.9.wasm", Text: "boom",
		}, store, NativeFloats{})
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.IsKind(err, errors.KindMalformed) {
			t.Errorf("expected malformed kind, got %v", err)
		}
		if errors.IsKind(err, errors.KindValueDecode) || errors.IsKind(err, errors.KindIO) {
			t.Error("lookup miss must not look like a value or io error")
		}
		var e *errors.Error
		if !stderrors.As(err, &e) || e.Line != 7 {
			t.Errorf("expected line 7 attached, got %v", err)
		}
	})

	t.Run("missing filename", func(t *testing.T) {
		_, err := decodeCommand(&wast.Command{Type: wast.TypeModule, Line: 1}, store, NativeFloats{})
		if !errors.IsKind(err, errors.KindMalformed) {
			t.Errorf("expected malformed kind, got %v", err)
		}
	})
}

func TestDecodeCommand_Register(t *testing.T) {
	store := NewBinaryStore(nil)
	name := "$a"

	cmd, err := decodeCommand(&wast.Command{
		Type: wast.TypeRegister, Line: 4, Name: &name, AsName: "alias",
	}, store, NativeFloats{})
	if err != nil {
		t.Fatal(err)
	}
	reg := cmd.Kind.(*Register)
	if reg.Name != "$a" || reg.As != "alias" {
		t.Errorf("unexpected register: %+v", reg)
	}

	_, err = decodeCommand(&wast.Command{Type: wast.TypeRegister, Line: 5}, store, NativeFloats{})
	if !errors.IsKind(err, errors.KindMalformed) {
		t.Errorf("expected malformed kind for missing as_name, got %v", err)
	}
}

func TestDecodeCommand_UnknownType(t *testing.T) {
	_, err := decodeCommand(&wast.Command{Type: "assert_sideways", Line: 2}, NewBinaryStore(nil), NativeFloats{})
	if !errors.IsKind(err, errors.KindMalformed) {
		t.Errorf("expected malformed kind, got %v", err)
	}
}
