package wast

import (
	"encoding/json"

	"github.com/wippyai/wast-script/errors"
)

// Command type discriminators as emitted by wast2json.
const (
	TypeModule                    = "module"
	TypeAssertReturn              = "assert_return"
	TypeAssertReturnCanonicalNan  = "assert_return_canonical_nan"
	TypeAssertReturnArithmeticNan = "assert_return_arithmetic_nan"
	TypeAssertExhaustion          = "assert_exhaustion"
	TypeAssertTrap                = "assert_trap"
	TypeAssertInvalid             = "assert_invalid"
	TypeAssertMalformed           = "assert_malformed"
	TypeAssertUninstantiable      = "assert_uninstantiable"
	TypeAssertUnlinkable          = "assert_unlinkable"
	TypeRegister                  = "register"
	TypeAction                    = "action"
)

// Action type discriminators.
const (
	ActionInvoke = "invoke"
	ActionGet    = "get"
)

// Spec is the top-level intermediate document for one script.
type Spec struct {
	SourceFilename string    `json:"source_filename"`
	Commands       []Command `json:"commands"`
}

// Command is one tagged command object. Which fields are populated depends
// on Type; unused fields keep their zero values. Name is a pointer because
// the wire format distinguishes an absent name from an empty one.
type Command struct {
	Type     string         `json:"type"`
	Line     uint64         `json:"line"`
	Filename string         `json:"filename,omitempty"`
	Name     *string        `json:"name,omitempty"`
	AsName   string         `json:"as_name,omitempty"`
	Text     string         `json:"text,omitempty"`
	Action   *Action        `json:"action,omitempty"`
	Expected []RuntimeValue `json:"expected,omitempty"`
}

// Action is the nested action object of assert and action commands.
type Action struct {
	Type   string         `json:"type"`
	Module *string        `json:"module,omitempty"`
	Field  string         `json:"field"`
	Args   []RuntimeValue `json:"args,omitempty"`
}

// RuntimeValue is a type-tagged numeric literal. Value holds the decimal
// text encoding of the unsigned bit pattern.
type RuntimeValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ParseSpec decodes the intermediate JSON document. A document that does
// not match the expected shape is a contract violation by the compiler,
// reported with the offending fragment attached.
func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindMalformed).
			Detail("intermediate JSON does not match expected shape").
			Value(fragment(data)).
			Cause(err).
			Build()
	}
	return &spec, nil
}

// fragment truncates raw JSON for error reporting.
func fragment(data []byte) string {
	const max = 128
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
