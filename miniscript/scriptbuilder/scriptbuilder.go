// Package scriptbuilder accumulates a script byte stream one opcode or
// push at a time, mirroring the AddOp/AddData/AddInt64 chaining API of
// pktd's txscript scriptbuilder (see standard.go's MultiSigScript and
// payToPubKeyHashScriptBuilder for the pattern this is grounded on).
package scriptbuilder

import "github.com/pkt-cash/miniscript/miniscript/scriptnum"

// ScriptBuilder accumulates a script. The zero value is ready to use.
type ScriptBuilder struct {
	script []byte
}

// New returns an empty ScriptBuilder.
func New() *ScriptBuilder {
	return &ScriptBuilder{}
}

// AddOp appends a single opcode byte.
func (b *ScriptBuilder) AddOp(op byte) *ScriptBuilder {
	b.script = append(b.script, op)
	return b
}

// AddData appends a length-prefixed data push. Only the one-byte-prefix
// form is needed: Miniscript never pushes more than 33 bytes.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	b.script = append(b.script, byte(len(data)))
	b.script = append(b.script, data...)
	return b
}

// AddInt64 appends the minimal encoding of n: a small-int opcode for
// 0..16, otherwise a length-prefixed minimal signed-magnitude push.
func (b *ScriptBuilder) AddInt64(n int64) *ScriptBuilder {
	if n == 0 {
		return b.AddOp(0x00)
	}
	if n >= 1 && n <= 16 {
		return b.AddOp(byte(0x50 + n))
	}
	return b.AddData(scriptnum.Encode(n))
}

// Script returns the accumulated bytes.
func (b *ScriptBuilder) Script() []byte {
	return b.script
}
