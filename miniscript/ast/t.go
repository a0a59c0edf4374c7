package ast

import (
	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/er"
	"github.com/pkt-cash/miniscript/miniscript/opcode"
	"github.com/pkt-cash/miniscript/miniscript/scriptbuilder"
)

// THashEqual is `SIZE 32 EQUALVERIFY SHA256 <hash> EQUAL`.
type THashEqual struct{ Hash chainhash.Hash256 }

// TAnd is `<V> <T>`.
type TAnd struct{ Left V; Right T }

// TSwitchOr is `SIZE EQUALVERIFY IF <T> ELSE <T> ENDIF`.
type TSwitchOr struct{ Left, Right T }

// TCascadeOr is `<E> IFDUP NOTIF <T> ENDIF`.
type TCascadeOr struct{ Left E; Right T }

// TCastE is `<E>`.
type TCastE struct{ E E }

// TCastF is `<F>`.
type TCastF struct{ F F }

func (THashEqual) isT() {}
func (TAnd) isT()       {}
func (TSwitchOr) isT()  {}
func (TCascadeOr) isT() {}
func (TCastE) isT()     {}
func (TCastF) isT()     {}

func (t THashEqual) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddInt64(32).AddOp(opcode.OP_EQUALVERIFY).
		AddOp(opcode.OP_SHA256).AddData(t.Hash[:]).AddOp(opcode.OP_EQUAL)
}

func (t TAnd) Serialize(b *scriptbuilder.ScriptBuilder) {
	t.Left.Serialize(b)
	t.Right.Serialize(b)
}

func (t TSwitchOr) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddOp(opcode.OP_EQUALVERIFY).AddOp(opcode.OP_IF)
	t.Left.Serialize(b)
	b.AddOp(opcode.OP_ELSE)
	t.Right.Serialize(b)
	b.AddOp(opcode.OP_ENDIF)
}

func (t TCascadeOr) Serialize(b *scriptbuilder.ScriptBuilder) {
	t.Left.Serialize(b)
	b.AddOp(opcode.OP_IFDUP).AddOp(opcode.OP_NOTIF)
	t.Right.Serialize(b)
	b.AddOp(opcode.OP_ENDIF)
}

func (t TCastE) Serialize(b *scriptbuilder.ScriptBuilder) { t.E.Serialize(b) }
func (t TCastF) Serialize(b *scriptbuilder.ScriptBuilder) { t.F.Serialize(b) }

func (t THashEqual) Satisfy(ctx *SatCtx) ([][]byte, er.R) { return satisfyHashEqual(t.Hash, ctx) }
func (t TAnd) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	lsat, err := t.Left.Satisfy(ctx)
	if err != nil {
		return nil, err
	}
	rsat, err := t.Right.Satisfy(ctx)
	if err != nil {
		return nil, err
	}
	return append(lsat, rsat...), nil
}
func (t TSwitchOr) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfySwitchOr(t.Left, t.Right, ctx)
}
func (t TCascadeOr) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyCascadeOr(t.Left, t.Right, ctx)
}
func (t TCastE) Satisfy(ctx *SatCtx) ([][]byte, er.R) { return t.E.Satisfy(ctx) }
func (t TCastF) Satisfy(ctx *SatCtx) ([][]byte, er.R) { return t.F.Satisfy(ctx) }

func (t THashEqual) RequiredKeys() []btcec.PublicKey { return nil }
func (t TAnd) RequiredKeys() []btcec.PublicKey {
	return append(t.Left.RequiredKeys(), t.Right.RequiredKeys()...)
}
func (t TSwitchOr) RequiredKeys() []btcec.PublicKey {
	return append(t.Left.RequiredKeys(), t.Right.RequiredKeys()...)
}
func (t TCascadeOr) RequiredKeys() []btcec.PublicKey {
	return append(t.Left.RequiredKeys(), t.Right.RequiredKeys()...)
}
func (t TCastE) RequiredKeys() []btcec.PublicKey { return t.E.RequiredKeys() }
func (t TCastF) RequiredKeys() []btcec.PublicKey { return t.F.RequiredKeys() }
