// Package token lexes a Script byte stream into a flat slice of Tokens
// and provides a tail-first Iter cursor for the reverse parser,
// mirroring the Token/TokenIter pair in the original parse.rs: the
// Miniscript grammar is parsed back-to-front, so the iterator's natural
// direction is Next() from the end of the script toward the start.
package token

import (
	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/er"
	"github.com/pkt-cash/miniscript/miniscript/mserr"
	"github.com/pkt-cash/miniscript/miniscript/opcode"
	"github.com/pkt-cash/miniscript/miniscript/scriptnum"
)

// Kind identifies which variant a Token holds.
type Kind int

const (
	BoolAnd Kind = iota
	BoolOr
	Add
	Equal
	EqualVerify
	CheckSig
	CheckSigVerify
	CheckMultiSig
	CheckMultiSigVerify
	CheckSequenceVerify
	FromAltStack
	ToAltStack
	Drop
	Dup
	If
	IfDup
	NotIf
	Else
	EndIf
	Size
	Swap
	Tuck
	Verify
	Hash160
	Sha256
	Number
	Hash160Hash
	Sha256Hash
	Pubkey
)

// Token is a single lexed unit. Only one of the payload fields is
// meaningful, selected by Kind.
type Token struct {
	Kind   Kind
	Num    uint32
	H160   chainhash.Hash160
	H256   chainhash.Hash256
	PubKey btcec.PublicKey
}

func (t Token) String() string {
	switch t.Kind {
	case Number:
		return "Number"
	case Hash160Hash:
		return "Hash160Hash"
	case Sha256Hash:
		return "Sha256Hash"
	case Pubkey:
		return "Pubkey"
	default:
		return kindNames[t.Kind]
	}
}

var kindNames = map[Kind]string{
	BoolAnd:             "BoolAnd",
	BoolOr:              "BoolOr",
	Add:                 "Add",
	Equal:               "Equal",
	EqualVerify:         "EqualVerify",
	CheckSig:            "CheckSig",
	CheckSigVerify:      "CheckSigVerify",
	CheckMultiSig:       "CheckMultiSig",
	CheckMultiSigVerify: "CheckMultiSigVerify",
	CheckSequenceVerify: "CheckSequenceVerify",
	FromAltStack:        "FromAltStack",
	ToAltStack:          "ToAltStack",
	Drop:                "Drop",
	Dup:                 "Dup",
	If:                  "If",
	IfDup:               "IfDup",
	NotIf:               "NotIf",
	Else:                "Else",
	EndIf:               "EndIf",
	Size:                "Size",
	Swap:                "Swap",
	Tuck:                "Tuck",
	Verify:              "Verify",
	Hash160:             "Hash160",
	Sha256:              "Sha256",
}

// Lex decodes script into a flat, front-to-back slice of Tokens. Pushes
// are dispatched on length: 20 bytes is a hash160 image, 32 bytes a
// sha256 image, 33 bytes a compressed pubkey, anything else is expected
// to be a minimal integer push.
func Lex(script []byte) ([]Token, er.R) {
	var toks []Token
	i := 0
	for i < len(script) {
		op := script[i]
		switch {
		case op == opcode.OP_0:
			toks = append(toks, Token{Kind: Number, Num: 0})
			i++
		case op >= opcode.OP_1 && op <= opcode.OP_16:
			toks = append(toks, Token{Kind: Number, Num: opcode.SmallIntValue(op)})
			i++
		case op >= 1 && op <= 75:
			// Direct push of op bytes.
			n := int(op)
			if i+1+n > len(script) {
				return nil, mserr.New(mserr.Script, "truncated push")
			}
			data := script[i+1 : i+1+n]
			tok, err := lexPush(data)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i += 1 + n
		default:
			tok, ok := opcodeToken(op)
			if !ok {
				return nil, mserr.New(mserr.InvalidOpcode, opcode.Name(op))
			}
			toks = append(toks, tok)
			i++
		}
	}
	return toks, nil
}

func lexPush(data []byte) (Token, er.R) {
	switch len(data) {
	case 20:
		return Token{Kind: Hash160Hash, H160: chainhash.NewHash160FromBytes(data)}, nil
	case 32:
		return Token{Kind: Sha256Hash, H256: chainhash.NewHash256FromBytes(data)}, nil
	case 33:
		pk, err := btcec.ParsePubKey(data)
		if err != nil {
			return Token{}, mserr.New(mserr.BadPubkey, err.Message())
		}
		return Token{Kind: Pubkey, PubKey: pk}, nil
	default:
		if !scriptnum.IsMinimal(data) {
			return Token{}, mserr.New(mserr.InvalidPush, "non-minimal integer push")
		}
		v := scriptnum.Decode(data)
		if v < 0 {
			return Token{}, mserr.New(mserr.InvalidPush, "negative integer push")
		}
		return Token{Kind: Number, Num: uint32(v)}, nil
	}
}

func opcodeToken(op byte) (Token, bool) {
	switch op {
	case opcode.OP_BOOLAND:
		return Token{Kind: BoolAnd}, true
	case opcode.OP_BOOLOR:
		return Token{Kind: BoolOr}, true
	case opcode.OP_ADD:
		return Token{Kind: Add}, true
	case opcode.OP_EQUAL:
		return Token{Kind: Equal}, true
	case opcode.OP_EQUALVERIFY:
		return Token{Kind: EqualVerify}, true
	case opcode.OP_CHECKSIG:
		return Token{Kind: CheckSig}, true
	case opcode.OP_CHECKSIGVERIFY:
		return Token{Kind: CheckSigVerify}, true
	case opcode.OP_CHECKMULTISIG:
		return Token{Kind: CheckMultiSig}, true
	case opcode.OP_CHECKMULTISIGVERIFY:
		return Token{Kind: CheckMultiSigVerify}, true
	case opcode.OP_CHECKSEQUENCEVERIFY:
		return Token{Kind: CheckSequenceVerify}, true
	case opcode.OP_FROMALTSTACK:
		return Token{Kind: FromAltStack}, true
	case opcode.OP_TOALTSTACK:
		return Token{Kind: ToAltStack}, true
	case opcode.OP_DROP:
		return Token{Kind: Drop}, true
	case opcode.OP_DUP:
		return Token{Kind: Dup}, true
	case opcode.OP_IF:
		return Token{Kind: If}, true
	case opcode.OP_IFDUP:
		return Token{Kind: IfDup}, true
	case opcode.OP_NOTIF:
		return Token{Kind: NotIf}, true
	case opcode.OP_ELSE:
		return Token{Kind: Else}, true
	case opcode.OP_ENDIF:
		return Token{Kind: EndIf}, true
	case opcode.OP_SIZE:
		return Token{Kind: Size}, true
	case opcode.OP_SWAP:
		return Token{Kind: Swap}, true
	case opcode.OP_TUCK:
		return Token{Kind: Tuck}, true
	case opcode.OP_VERIFY:
		return Token{Kind: Verify}, true
	case opcode.OP_HASH160:
		return Token{Kind: Hash160}, true
	case opcode.OP_SHA256:
		return Token{Kind: Sha256}, true
	default:
		return Token{}, false
	}
}

// Iter is a cursor over a token slice that walks from the end toward the
// start, with one-token push-back (UnNext), matching the grammar's
// tail-first recursive descent.
type Iter struct {
	toks []Token
	pos  int // one past the next token to be returned by Next
}

// NewIter builds an Iter starting just past the last token.
func NewIter(toks []Token) *Iter {
	return &Iter{toks: toks, pos: len(toks)}
}

// Next pops the token immediately before the cursor, or reports false at
// the start of the stream.
func (it *Iter) Next() (Token, bool) {
	if it.pos == 0 {
		return Token{}, false
	}
	it.pos--
	return it.toks[it.pos], true
}

// Peek returns the token Next would return, without consuming it.
func (it *Iter) Peek() (Token, bool) {
	if it.pos == 0 {
		return Token{}, false
	}
	return it.toks[it.pos-1], true
}

// UnNext pushes one token back onto the cursor. Only a single level of
// push-back is ever required by the grammar.
func (it *Iter) UnNext() {
	if it.pos < len(it.toks) {
		it.pos++
	}
}

// Done reports whether the cursor has consumed every token.
func (it *Iter) Done() bool {
	return it.pos == 0
}

// Pos returns the current cursor index, for error reporting.
func (it *Iter) Pos() int {
	return it.pos
}
