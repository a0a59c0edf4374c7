package ast

import (
	"sort"

	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/er"
	"github.com/pkt-cash/miniscript/miniscript/mserr"
)

// satisfyCost computes witness size assuming every push is under 254
// bytes, so each costs 1 length byte plus its payload.
func satisfyCost(s [][]byte) int {
	total := 0
	for _, p := range s {
		total += 1 + len(p)
	}
	return total
}

func satisfyChecksig(pk btcec.PublicKey, ctx *SatCtx) ([][]byte, er.R) {
	if sig, ok := ctx.Sigs[pk]; ok {
		return [][]byte{sig}, nil
	}
	return nil, mserr.New(mserr.MissingSig, pk.String())
}

func satisfyChecksigHash(hash chainhash.Hash160, ctx *SatCtx) ([][]byte, er.R) {
	pk, ok := ctx.PKHashes[hash]
	if !ok {
		return nil, mserr.New(mserr.MissingPubkey, hash.String())
	}
	sig, ok := ctx.Sigs[pk]
	if !ok {
		return nil, mserr.New(mserr.MissingSig, pk.String())
	}
	return [][]byte{sig, pk.Serialize()}, nil
}

func satisfyCheckmultisig(k int, keys []btcec.PublicKey, ctx *SatCtx) ([][]byte, er.R) {
	ret := make([][]byte, 0, k)
	for _, pk := range keys {
		sig, ok := ctx.Sigs[pk]
		if !ok {
			continue
		}
		ret = append(ret, sig)
		if len(ret) > k {
			maxIdx := 0
			for i, s := range ret {
				if len(s) >= len(ret[maxIdx]) {
					maxIdx = i
				}
			}
			ret = append(ret[:maxIdx], ret[maxIdx+1:]...)
		}
	}
	if len(ret) != k {
		return nil, mserr.New(mserr.CouldNotSatisfy, "insufficient signatures for multisig")
	}
	ret = append(ret, nil)
	return ret, nil
}

func satisfyHashEqual(hash chainhash.Hash256, ctx *SatCtx) ([][]byte, er.R) {
	pre, ok := ctx.Preimage[hash]
	if !ok {
		return nil, mserr.New(mserr.MissingHash, hash.String())
	}
	return [][]byte{pre}, nil
}

func satisfyCsv(n uint32, ctx *SatCtx) ([][]byte, er.R) {
	if ctx.Age >= n {
		return [][]byte{}, nil
	}
	return nil, mserr.New(mserr.LocktimeNotMet, "")
}

func satisfyThreshold(k int, sube E, subw []W, ctx *SatCtx) ([][]byte, er.R) {
	if k == 0 {
		return [][]byte{}, nil
	}

	satisfactions := make([][][]byte, 0, 1+len(subw))
	if sat, err := sube.Satisfy(ctx); err == nil {
		satisfactions = append(satisfactions, sat)
	}
	for _, sub := range subw {
		if sat, err := sub.Satisfy(ctx); err == nil {
			satisfactions = append(satisfactions, sat)
		}
	}
	if len(satisfactions) < k {
		return nil, mserr.New(mserr.CouldNotSatisfy, "too few satisfiable threshold children")
	}

	indices := make([]int, len(satisfactions))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return satisfyCost(satisfactions[indices[a]]) < satisfyCost(satisfactions[indices[b]])
	})

	var ret [][]byte
	for _, idx := range indices[:k] {
		ret = append(ret, satisfactions[idx]...)
	}
	return ret, nil
}

func satisfyParallelOr(left E, right W, ctx *SatCtx) ([][]byte, er.R) {
	lsat, lerr := left.Satisfy(ctx)
	rsat, rerr := right.Satisfy(ctx)
	switch {
	case lerr == nil && rerr != nil:
		rdissat, err := right.Dissatisfy(ctx.PKHashes)
		if err != nil {
			return nil, err
		}
		return append(lsat, rdissat...), nil
	case lerr != nil && rerr == nil:
		ldissat, err := left.Dissatisfy(ctx.PKHashes)
		if err != nil {
			return nil, err
		}
		return append(ldissat, rsat...), nil
	case lerr != nil && rerr != nil:
		return nil, lerr
	default:
		ldissat, err := left.Dissatisfy(ctx.PKHashes)
		if err != nil {
			return nil, err
		}
		rdissat, err := right.Dissatisfy(ctx.PKHashes)
		if err != nil {
			return nil, err
		}
		if satisfyCost(lsat)+satisfyCost(rdissat) <= satisfyCost(rsat)+satisfyCost(ldissat) {
			return append(lsat, rdissat...), nil
		}
		return append(ldissat, rsat...), nil
	}
}

func satisfySwitchOr(left, right Sat, ctx *SatCtx) ([][]byte, er.R) {
	lsat, lerr := left.Satisfy(ctx)
	rsat, rerr := right.Satisfy(ctx)
	switch {
	case lerr != nil && rerr != nil:
		return nil, lerr
	case lerr == nil && rerr != nil:
		return append(lsat, []byte{1}), nil
	case lerr != nil && rerr == nil:
		return append(rsat, []byte{}), nil
	default:
		if satisfyCost(lsat)+2 <= satisfyCost(rsat)+1 {
			return append(lsat, []byte{1}), nil
		}
		return append(rsat, []byte{}), nil
	}
}

func satisfyCascadeOr(left E, right Sat, ctx *SatCtx) ([][]byte, er.R) {
	lsat, lerr := left.Satisfy(ctx)
	rsat, rerr := right.Satisfy(ctx)
	switch {
	case lerr != nil && rerr != nil:
		return nil, lerr
	case lerr == nil && rerr != nil:
		return lsat, nil
	case lerr != nil && rerr == nil:
		ldissat, err := left.Dissatisfy(ctx.PKHashes)
		if err != nil {
			return nil, err
		}
		return append(ldissat, rsat...), nil
	default:
		ldissat, err := left.Dissatisfy(ctx.PKHashes)
		if err != nil {
			return nil, err
		}
		if satisfyCost(lsat) <= satisfyCost(rsat)+satisfyCost(ldissat) {
			return lsat, nil
		}
		return append(ldissat, rsat...), nil
	}
}
