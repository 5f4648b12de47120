// Package blend implements the per-channel pixel operation engine.
//
// An operation combines a left-hand pixel with a right-hand pixel or
// constant color, channel by channel, after both operands have been passed
// through their channel selectors. Every operation is a total function over
// the byte domain: results are clamped (or, in raw mode, wrapped) back to
// 8 bits and never panic.
//
// Operations:
//   - Bitwise: Or, And, Xor (optionally complemented by Params.Negate)
//   - Arithmetic: Add, Sub, Mult, Div, Pow, Average
//   - Blend modes: Screen, Overlay
//   - Shifts: ShiftLeft, ShiftRight (of the left operand by Params.Bits)
package blend

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/gogpu/imgfx"
)

// Op identifies a per-channel pixel operation.
type Op uint8

// Supported operations.
const (
	Or Op = iota
	And
	Xor
	Add
	Sub
	Mult
	Div
	Pow
	Average
	Screen
	Overlay
	ShiftLeft
	ShiftRight
)

var opNames = [...]string{
	Or:         "OR",
	And:        "AND",
	Xor:        "XOR",
	Add:        "ADD",
	Sub:        "SUB",
	Mult:       "MULT",
	Div:        "DIV",
	Pow:        "POW",
	Average:    "AVG",
	Screen:     "SCREEN",
	Overlay:    "OVERLAY",
	ShiftLeft:  "LEFT",
	ShiftRight: "RIGHT",
}

// String returns the command-line name of the operation.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// IsBitwise reports whether op is Or, And or Xor.
func (op Op) IsBitwise() bool {
	return op == Or || op == And || op == Xor
}

// IsShift reports whether op is ShiftLeft or ShiftRight.
func (op Op) IsShift() bool {
	return op == ShiftLeft || op == ShiftRight
}

// HonorsRaw reports whether Params.Raw changes the result of op.
func (op Op) HonorsRaw() bool {
	return op == Sub || op.IsShift()
}

// NeedsOperand reports whether op reads a right-hand operand.
func (op Op) NeedsOperand() bool {
	return !op.IsShift()
}

var fold = cases.Fold()

// ParseOp parses an operation name case-insensitively. AVERAGE is accepted
// as an alias of AVG. Errors wrap imgfx.ErrUnknownOp.
func ParseOp(name string) (Op, error) {
	key := fold.String(name)
	if key == "average" {
		return Average, nil
	}
	for i, n := range opNames {
		if fold.String(n) == key {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("%w: operation %q", imgfx.ErrUnknownOp, name)
}

// MaxBits is the largest allowed shift amount.
const MaxBits = 7

// Params carries the per-operation modifiers.
type Params struct {
	// Negate complements the result of Or, And and Xor.
	Negate bool

	// Raw replaces clamping with two's complement wraparound for Sub and
	// the shifts. Other operations always clamp.
	Raw bool

	// Bits is the shift amount for ShiftLeft and ShiftRight, 0..7.
	Bits uint
}

// Validate reports a *imgfx.ConfigError for a shift amount above MaxBits.
func (p Params) Validate() error {
	if p.Bits > MaxBits {
		return imgfx.NewConfigError("bit_shift", fmt.Errorf("%w: %d", imgfx.ErrBitCount, p.Bits))
	}
	return nil
}
