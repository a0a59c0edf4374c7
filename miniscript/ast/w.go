package ast

import (
	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/er"
	"github.com/pkt-cash/miniscript/miniscript/opcode"
	"github.com/pkt-cash/miniscript/miniscript/scriptbuilder"
)

// WCheckSig is `SWAP <pk> CHECKSIG`.
type WCheckSig struct{ PK btcec.PublicKey }

// WHashEqual is `SWAP SIZE IF SIZE 32 EQUALVERIFY SHA256 <hash> EQUALVERIFY 1 ENDIF`.
type WHashEqual struct{ Hash chainhash.Hash256 }

// WCsv is `SWAP SIZE EQUALVERIFY IF <n> CSV ELSE 0 ENDIF`.
type WCsv struct{ N uint32 }

// WCastE is `TOALTSTACK <E> FROMALTSTACK`.
type WCastE struct{ E E }

func (WCheckSig) isW()   {}
func (WHashEqual) isW()  {}
func (WCsv) isW()        {}
func (WCastE) isW()      {}

func (w WCheckSig) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SWAP).AddData(w.PK.Serialize()).AddOp(opcode.OP_CHECKSIG)
}

func (w WHashEqual) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SWAP).AddOp(opcode.OP_SIZE).AddOp(opcode.OP_IF).
		AddOp(opcode.OP_SIZE).AddInt64(32).AddOp(opcode.OP_EQUALVERIFY).
		AddOp(opcode.OP_SHA256).AddData(w.Hash[:]).AddOp(opcode.OP_EQUALVERIFY).
		AddInt64(1).AddOp(opcode.OP_ENDIF)
}

func (w WCsv) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SWAP).AddOp(opcode.OP_SIZE).AddOp(opcode.OP_EQUALVERIFY).
		AddOp(opcode.OP_IF).AddInt64(int64(w.N)).AddOp(opcode.OP_CHECKSEQUENCEVERIFY).
		AddOp(opcode.OP_ELSE).AddInt64(0).AddOp(opcode.OP_ENDIF)
}

func (w WCastE) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_TOALTSTACK)
	w.E.Serialize(b)
	b.AddOp(opcode.OP_FROMALTSTACK)
}

func (w WCheckSig) Satisfy(ctx *SatCtx) ([][]byte, er.R)   { return satisfyChecksig(w.PK, ctx) }
func (w WHashEqual) Satisfy(ctx *SatCtx) ([][]byte, er.R)  { return satisfyHashEqual(w.Hash, ctx) }
func (w WCsv) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	if _, err := satisfyCsv(w.N, ctx); err != nil {
		return nil, err
	}
	return [][]byte{{1}}, nil
}
func (w WCastE) Satisfy(ctx *SatCtx) ([][]byte, er.R) { return w.E.Satisfy(ctx) }

func (w WCheckSig) Dissatisfy(map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return [][]byte{{}}, nil
}
func (w WHashEqual) Dissatisfy(map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return [][]byte{{}}, nil
}
func (w WCsv) Dissatisfy(map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return nil, nil
}
func (w WCastE) Dissatisfy(pkhMap map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return w.E.Dissatisfy(pkhMap)
}

func (w WCheckSig) RequiredKeys() []btcec.PublicKey  { return []btcec.PublicKey{w.PK} }
func (w WHashEqual) RequiredKeys() []btcec.PublicKey { return nil }
func (w WCsv) RequiredKeys() []btcec.PublicKey       { return nil }
func (w WCastE) RequiredKeys() []btcec.PublicKey     { return w.E.RequiredKeys() }
