// Package mserr is the closed error taxonomy of spec §7, expressed as an
// er.ErrorType with one er.ErrorCode per named fault, the same pattern
// txscript/txscripterr uses for script-evaluation errors.
package mserr

import "github.com/pkt-cash/miniscript/er"

// Err is the single ErrorType for this module; every code below belongs
// to it.
var Err er.ErrorType = er.NewErrorType("miniscript.Err")

var (
	// InvalidOpcode: opcode appeared which is not part of the accepted
	// Miniscript subset.
	InvalidOpcode = Err.Code("InvalidOpcode")

	// InvalidPush: non-minimal integer push, or a push encoding a
	// negative number where a non-negative integer was required.
	InvalidPush = Err.Code("InvalidPush")

	// Script: a malformed or truncated push in the underlying wire
	// script, delegated from the instruction decoder.
	Script = Err.Code("Script")

	// Unprintable: unprintable character encountered while parsing a
	// textual descriptor. Reserved for the descriptor-parsing boundary,
	// not produced by the Miniscript core itself.
	Unprintable = Err.Code("Unprintable")

	// ExpectedChar: expected character missing while parsing a textual
	// descriptor. Reserved, as above.
	ExpectedChar = Err.Code("ExpectedChar")

	// UnexpectedStart: the reverse parser ran off the start of the token
	// stream while still expecting a predecessor token or subexpression.
	UnexpectedStart = Err.Code("UnexpectedStart")

	// Unexpected: the reverse parser found a token or subexpression of
	// the wrong kind where a specific one was required.
	Unexpected = Err.Code("Unexpected")

	// BadPubkey: a 33-byte push did not parse as a compressed public key.
	BadPubkey = Err.Code("BadPubkey")

	// MissingHash: satisfier has no preimage for a required hash.
	MissingHash = Err.Code("MissingHash")

	// MissingSig: satisfier has no signature for a required public key.
	MissingSig = Err.Code("MissingSig")

	// MissingPubkey: satisfier has no public key for a required hash160.
	MissingPubkey = Err.Code("MissingPubkey")

	// LocktimeNotMet: a CSV fragment required a sequence age not met by
	// the age the caller supplied.
	LocktimeNotMet = Err.Code("LocktimeNotMet")

	// CouldNotSatisfy: general failure to satisfy a script fragment,
	// e.g. an under-threshold multisig or an Or with both branches
	// unsatisfiable.
	CouldNotSatisfy = Err.Code("CouldNotSatisfy")
)

// New builds an er.R from code with the given free-form detail.
func New(code *er.ErrorCode, detail string) er.R {
	return code.New(detail, nil)
}
