package script

import (
	"fmt"
	"unicode/utf8"

	"github.com/wippyai/wast-script/errors"
	"github.com/wippyai/wast-script/wast"
)

// decodeCommand maps one intermediate JSON command onto the public model.
// Any failure is attributed to the command's source line.
func decodeCommand(cmd *wast.Command, store *BinaryStore, floats FloatDecoder) (*Command, error) {
	kind, err := decodeKind(cmd, store, floats)
	if err != nil {
		return nil, errors.WithLine(err, cmd.Line)
	}
	return &Command{Line: cmd.Line, Kind: kind}, nil
}

func decodeKind(cmd *wast.Command, store *BinaryStore, floats FloatDecoder) (CommandKind, error) {
	switch cmd.Type {
	case wast.TypeModule:
		mod, err := lookupModule(store, cmd)
		if err != nil {
			return nil, err
		}
		return &Module{Module: mod, Name: optName(cmd.Name)}, nil

	case wast.TypeAssertReturn:
		action, err := DecodeAction(cmd.Action, floats)
		if err != nil {
			return nil, err
		}
		expected, err := DecodeValues(cmd.Expected, floats)
		if err != nil {
			return nil, err
		}
		return &AssertReturn{Action: action, Expected: expected}, nil

	case wast.TypeAssertReturnCanonicalNan:
		action, err := DecodeAction(cmd.Action, floats)
		if err != nil {
			return nil, err
		}
		return &AssertReturnCanonicalNan{Action: action}, nil

	case wast.TypeAssertReturnArithmeticNan:
		action, err := DecodeAction(cmd.Action, floats)
		if err != nil {
			return nil, err
		}
		return &AssertReturnArithmeticNan{Action: action}, nil

	case wast.TypeAssertExhaustion:
		action, err := DecodeAction(cmd.Action, floats)
		if err != nil {
			return nil, err
		}
		return &AssertExhaustion{Action: action}, nil

	case wast.TypeAssertTrap:
		action, err := DecodeAction(cmd.Action, floats)
		if err != nil {
			return nil, err
		}
		return &AssertTrap{Action: action, Message: cmd.Text}, nil

	case wast.TypeAssertInvalid:
		mod, err := lookupModule(store, cmd)
		if err != nil {
			return nil, err
		}
		return &AssertInvalid{Module: mod, Message: cmd.Text}, nil

	case wast.TypeAssertMalformed:
		mod, err := lookupModule(store, cmd)
		if err != nil {
			return nil, err
		}
		return &AssertMalformed{Module: mod, Message: cmd.Text}, nil

	case wast.TypeAssertUnlinkable:
		mod, err := lookupModule(store, cmd)
		if err != nil {
			return nil, err
		}
		return &AssertUnlinkable{Module: mod, Message: cmd.Text}, nil

	case wast.TypeAssertUninstantiable:
		mod, err := lookupModule(store, cmd)
		if err != nil {
			return nil, err
		}
		return &AssertUninstantiable{Module: mod, Message: cmd.Text}, nil

	case wast.TypeRegister:
		if cmd.AsName == "" {
			return nil, errors.Malformed(errors.PhaseDecode, "register command missing as_name", nil)
		}
		return &Register{Name: optName(cmd.Name), As: cmd.AsName}, nil

	case wast.TypeAction:
		action, err := DecodeAction(cmd.Action, floats)
		if err != nil {
			return nil, err
		}
		return &PerformAction{Action: action}, nil

	default:
		return nil, errors.Malformed(errors.PhaseDecode,
			fmt.Sprintf("unknown command type %q", cmd.Type), *cmd)
	}
}

// lookupModule resolves a command's module reference against the store.
// A miss means the compiler violated its own output contract, so it is an
// internal-invariant failure, not a recoverable input error.
func lookupModule(store *BinaryStore, cmd *wast.Command) (ModuleBinary, error) {
	if cmd.Filename == "" {
		return ModuleBinary{}, errors.Malformed(errors.PhaseDecode,
			fmt.Sprintf("%s command missing module filename", cmd.Type), *cmd)
	}
	mod, ok := store.Get(cmd.Filename)
	if !ok {
		return ModuleBinary{}, errors.Malformed(errors.PhaseDecode,
			fmt.Sprintf("module %q referenced in intermediate JSON does not exist in compiler output", cmd.Filename), nil)
	}
	return mod, nil
}

// DecodeAction normalizes the nested action object of an assert or action
// command.
func DecodeAction(a *wast.Action, floats FloatDecoder) (Action, error) {
	if a == nil {
		return nil, errors.Malformed(errors.PhaseDecode, "command missing action object", nil)
	}
	field, err := decodeJSONString(a.Field)
	if err != nil {
		return nil, err
	}
	switch a.Type {
	case wast.ActionInvoke:
		args, err := DecodeValues(a.Args, floats)
		if err != nil {
			return nil, err
		}
		return &Invoke{Module: optName(a.Module), Field: field, Args: args}, nil
	case wast.ActionGet:
		return &Get{Module: optName(a.Module), Field: field}, nil
	default:
		return nil, errors.Malformed(errors.PhaseDecode,
			fmt.Sprintf("unknown action type %q", a.Type), *a)
	}
}

// decodeJSONString recovers a field name from the intermediate JSON's
// escaping convention. wast2json escapes names per UTF-8 byte rather than
// per code point: the 3-byte BOM U+FEFF arrives as the escape sequence
// \u00ef\u00bb\u00bf. Each decoded character is therefore reinterpreted
// as one byte and the result re-validated as UTF-8. This is only correct
// for characters that fit a single byte and is kept bug-for-bug:
// downstream test expectations are written against exactly this behavior.
func decodeJSONString(s string) (string, error) {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		buf = append(buf, byte(r))
	}
	if !utf8.Valid(buf) {
		return "", errors.Malformed(errors.PhaseDecode,
			"field name is not valid UTF-8 after byte re-decoding", s)
	}
	return string(buf), nil
}

func optName(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}
