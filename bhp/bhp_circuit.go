package bhp

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"

	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/group"
)

// HashUncompressedCircuit mirrors HashUncompressed. Every input wire must
// already be constrained to a boolean.
func (b *BHP) HashUncompressedCircuit(curve twistededwards.Curve, input []frontend.Variable) (group.CircuitPoint, error) {
	if len(input) == 0 {
		return group.CircuitPoint{}, ErrEmptyInput
	}
	api := curve.API()
	bs := b.bases()
	digest := group.CircuitZero()
	preimage := make([]frontend.Variable, 0, b.HasherBits())
	for i, blk := range b.blocks(len(input)) {
		preimage = preimage[:0]
		if i == 0 {
			preimage = append(preimage, field.Constants(bs.domain)...)
			preimage = append(preimage, field.Constants(field.BitsLE(new(big.Int).SetUint64(uint64(len(input))), lengthBits))...)
		} else {
			preimage = append(preimage, api.ToBinary(digest.X, field.SizeInBits)[:field.SizeInDataBits]...)
		}
		preimage = append(preimage, input[blk[0]:blk[1]]...)
		digest = b.hashBlockCircuit(curve, bs, preimage)
	}
	return digest, nil
}

func (b *BHP) hashBlockCircuit(curve twistededwards.Curve, bs *bases, bits []frontend.Variable) group.CircuitPoint {
	api := curve.API()
	sum := group.CircuitZero()
	for k := 0; k*ChunkSize < len(bits); k++ {
		c := [ChunkSize]frontend.Variable{0, 0, 0}
		copy(c[:], bits[k*ChunkSize:])
		m := bs.lookup[k/b.windowSize][k%b.windowSize]
		x := api.Lookup2(c[0], c[1], field.ToBig(m[0].X), field.ToBig(m[1].X), field.ToBig(m[2].X), field.ToBig(m[3].X))
		y := api.Lookup2(c[0], c[1], field.ToBig(m[0].Y), field.ToBig(m[1].Y), field.ToBig(m[2].Y), field.ToBig(m[3].Y))
		// -(x, y) = (-x, y)
		x = api.Mul(x, api.Sub(1, api.Mul(2, c[2])))
		sum = curve.Add(sum, group.CircuitPoint{X: x, Y: y})
	}
	return sum
}

func (b *BHP) HashCircuit(curve twistededwards.Curve, input []frontend.Variable) (frontend.Variable, error) {
	h, err := b.HashUncompressedCircuit(curve, input)
	if err != nil {
		return nil, err
	}
	return h.X, nil
}

// CommitCircuit mirrors Commit. The randomizer must be a canonical scalar.
func (b *BHP) CommitCircuit(curve twistededwards.Curve, input []frontend.Variable, randomizer frontend.Variable) (frontend.Variable, error) {
	h, err := b.HashUncompressedCircuit(curve, input)
	if err != nil {
		return nil, err
	}
	r := curve.ScalarMul(group.Constant(b.bases().random), randomizer)
	return curve.Add(h, r).X, nil
}
