package ast

import (
	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/er"
	"github.com/pkt-cash/miniscript/miniscript/opcode"
	"github.com/pkt-cash/miniscript/miniscript/scriptbuilder"
)

// VCheckSig is `<pk> CHECKSIGVERIFY`.
type VCheckSig struct{ PK btcec.PublicKey }

// VCheckSigHash is `DUP HASH160 <hash> EQUALVERIFY CHECKSIGVERIFY`.
type VCheckSigHash struct{ Hash chainhash.Hash160 }

// VCheckMultiSig is `<k> <pk...> <len(pk)> CHECKMULTISIGVERIFY`.
type VCheckMultiSig struct {
	K    int
	Keys []btcec.PublicKey
}

// VCsv is `<n> CSV DROP`.
type VCsv struct{ N uint32 }

// VHashEqual is `SIZE 32 EQUALVERIFY SHA256 <hash> EQUALVERIFY`.
type VHashEqual struct{ Hash chainhash.Hash256 }

// VThreshold is `<E> <W> ADD ... <W> ADD <k> EQUALVERIFY`.
type VThreshold struct {
	K    int
	Sube E
	Subw []W
}

// VAnd is `<V> <V>`.
type VAnd struct{ Left, Right V }

// VParallelOr is `<E> <W> BOOLOR VERIFY`.
type VParallelOr struct{ Left E; Right W }

// VSwitchOr is `SIZE EQUALVERIFY IF <V> ELSE <V> ENDIF`.
type VSwitchOr struct{ Left, Right V }

// VSwitchOrT is `SIZE EQUALVERIFY IF <T> ELSE <T> ENDIF VERIFY`.
type VSwitchOrT struct{ Left, Right T }

// VCascadeOr is `<E> NOTIF <V> ENDIF`.
type VCascadeOr struct{ Left E; Right V }

func (VCheckSig) isV()      {}
func (VCheckSigHash) isV()  {}
func (VCheckMultiSig) isV() {}
func (VCsv) isV()           {}
func (VHashEqual) isV()     {}
func (VThreshold) isV()     {}
func (VAnd) isV()           {}
func (VParallelOr) isV()    {}
func (VSwitchOr) isV()      {}
func (VSwitchOrT) isV()     {}
func (VCascadeOr) isV()     {}

func (v VCheckSig) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddData(v.PK.Serialize()).AddOp(opcode.OP_CHECKSIGVERIFY)
}

func (v VCheckSigHash) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_DUP).AddOp(opcode.OP_HASH160).AddData(v.Hash[:]).
		AddOp(opcode.OP_EQUALVERIFY).AddOp(opcode.OP_CHECKSIGVERIFY)
}

func (v VCheckMultiSig) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddInt64(int64(v.K))
	for _, pk := range v.Keys {
		b.AddData(pk.Serialize())
	}
	b.AddInt64(int64(len(v.Keys))).AddOp(opcode.OP_CHECKMULTISIGVERIFY)
}

func (v VCsv) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddInt64(int64(v.N)).AddOp(opcode.OP_CHECKSEQUENCEVERIFY).AddOp(opcode.OP_DROP)
}

func (v VHashEqual) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddInt64(32).AddOp(opcode.OP_EQUALVERIFY).
		AddOp(opcode.OP_SHA256).AddData(v.Hash[:]).AddOp(opcode.OP_EQUALVERIFY)
}

func (v VThreshold) Serialize(b *scriptbuilder.ScriptBuilder) {
	v.Sube.Serialize(b)
	for _, w := range v.Subw {
		w.Serialize(b)
		b.AddOp(opcode.OP_ADD)
	}
	b.AddInt64(int64(v.K)).AddOp(opcode.OP_EQUALVERIFY)
}

func (v VAnd) Serialize(b *scriptbuilder.ScriptBuilder) {
	v.Left.Serialize(b)
	v.Right.Serialize(b)
}

func (v VParallelOr) Serialize(b *scriptbuilder.ScriptBuilder) {
	v.Left.Serialize(b)
	v.Right.Serialize(b)
	b.AddOp(opcode.OP_BOOLOR).AddOp(opcode.OP_VERIFY)
}

func (v VSwitchOr) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddOp(opcode.OP_EQUALVERIFY).AddOp(opcode.OP_IF)
	v.Left.Serialize(b)
	b.AddOp(opcode.OP_ELSE)
	v.Right.Serialize(b)
	b.AddOp(opcode.OP_ENDIF)
}

func (v VSwitchOrT) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddOp(opcode.OP_EQUALVERIFY).AddOp(opcode.OP_IF)
	v.Left.Serialize(b)
	b.AddOp(opcode.OP_ELSE)
	v.Right.Serialize(b)
	b.AddOp(opcode.OP_ENDIF).AddOp(opcode.OP_VERIFY)
}

func (v VCascadeOr) Serialize(b *scriptbuilder.ScriptBuilder) {
	v.Left.Serialize(b)
	b.AddOp(opcode.OP_NOTIF)
	v.Right.Serialize(b)
	b.AddOp(opcode.OP_ENDIF)
}

func (v VCheckSig) Satisfy(ctx *SatCtx) ([][]byte, er.R) { return satisfyChecksig(v.PK, ctx) }
func (v VCheckSigHash) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyChecksigHash(v.Hash, ctx)
}
func (v VCheckMultiSig) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyCheckmultisig(v.K, v.Keys, ctx)
}
func (v VCsv) Satisfy(ctx *SatCtx) ([][]byte, er.R)       { return satisfyCsv(v.N, ctx) }
func (v VHashEqual) Satisfy(ctx *SatCtx) ([][]byte, er.R) { return satisfyHashEqual(v.Hash, ctx) }
func (v VThreshold) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyThreshold(v.K, v.Sube, v.Subw, ctx)
}
func (v VAnd) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	lsat, err := v.Left.Satisfy(ctx)
	if err != nil {
		return nil, err
	}
	rsat, err := v.Right.Satisfy(ctx)
	if err != nil {
		return nil, err
	}
	return append(lsat, rsat...), nil
}
func (v VParallelOr) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyParallelOr(v.Left, v.Right, ctx)
}
func (v VSwitchOr) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfySwitchOr(v.Left, v.Right, ctx)
}
func (v VSwitchOrT) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfySwitchOr(v.Left, v.Right, ctx)
}
func (v VCascadeOr) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyCascadeOr(v.Left, v.Right, ctx)
}

func (v VCheckSig) RequiredKeys() []btcec.PublicKey      { return []btcec.PublicKey{v.PK} }
func (v VCheckSigHash) RequiredKeys() []btcec.PublicKey  { return nil }
func (v VCheckMultiSig) RequiredKeys() []btcec.PublicKey { return v.Keys }
func (v VCsv) RequiredKeys() []btcec.PublicKey           { return nil }
func (v VHashEqual) RequiredKeys() []btcec.PublicKey     { return nil }
func (v VThreshold) RequiredKeys() []btcec.PublicKey {
	ret := v.Sube.RequiredKeys()
	for _, sub := range v.Subw {
		ret = append(ret, sub.RequiredKeys()...)
	}
	return ret
}
func (v VAnd) RequiredKeys() []btcec.PublicKey {
	return append(v.Left.RequiredKeys(), v.Right.RequiredKeys()...)
}
func (v VParallelOr) RequiredKeys() []btcec.PublicKey {
	return append(v.Left.RequiredKeys(), v.Right.RequiredKeys()...)
}
func (v VSwitchOr) RequiredKeys() []btcec.PublicKey {
	return append(v.Left.RequiredKeys(), v.Right.RequiredKeys()...)
}
func (v VSwitchOrT) RequiredKeys() []btcec.PublicKey {
	return append(v.Left.RequiredKeys(), v.Right.RequiredKeys()...)
}
func (v VCascadeOr) RequiredKeys() []btcec.PublicKey {
	return append(v.Left.RequiredKeys(), v.Right.RequiredKeys()...)
}
