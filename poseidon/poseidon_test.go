package poseidon

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolyhedraZK/ecvm/group"
)

func randomElements(t *testing.T, n int) []fr.Element {
	out := make([]fr.Element, n)
	for i := range out {
		_, err := out[i].SetRandom()
		require.NoError(t, err)
	}
	return out
}

func TestDefaultParams(t *testing.T) {
	for rate, partial := range partialRounds {
		params, err := DefaultParams(rate)
		require.NoError(t, err)
		assert.Equal(t, rate, params.Rate)
		assert.Equal(t, partial, params.PartialRounds)
		assert.Len(t, params.Ark, FullRounds+partial)
		for _, round := range params.Ark {
			assert.Len(t, round, rate+Capacity)
		}
		assert.Len(t, params.Mds, rate+Capacity)

		again, err := DefaultParams(rate)
		require.NoError(t, err)
		assert.Same(t, params, again)
	}

	_, err := DefaultParams(3)
	assert.ErrorIs(t, err, ErrNoParameters)
	assert.Panics(t, func() { MustNew(16) })
}

func TestHash(t *testing.T) {
	for _, rate := range []int{2, 4, 8} {
		p := MustNew(rate)
		for n := 0; n <= 2*rate+1; n++ {
			input := randomElements(t, n)
			h := p.Hash(input)
			again := p.Hash(input)
			assert.True(t, h.Equal(&again), "hash must be deterministic")

			many, err := p.HashMany(input, 2*rate+1)
			require.NoError(t, err)
			assert.Len(t, many, 2*rate+1)
			assert.True(t, h.Equal(&many[0]), "first squeezed element is the hash")

			s := p.HashToScalar(input)
			assert.True(t, s.Cmp(new(big.Int).Lsh(big.NewInt(1), group.ScalarSizeInDataBits)) < 0)
			assert.True(t, s.Cmp(group.Order()) < 0)
		}
		none, err := p.HashMany(randomElements(t, 3), 0)
		require.NoError(t, err)
		assert.Empty(t, none)

		_, err = p.HashMany(randomElements(t, 3), -1)
		assert.ErrorIs(t, err, ErrInvalidOutputs)
	}
}

func TestHashLengthSeparation(t *testing.T) {
	p := MustNew(4)
	var zero fr.Element
	a := p.Hash(nil)
	b := p.Hash([]fr.Element{zero})
	assert.False(t, a.Equal(&b))

	c := MustNew(2).Hash(nil)
	assert.False(t, a.Equal(&c), "domains differ per rate")
}

func TestPRF(t *testing.T) {
	p := MustNew(2)
	input := randomElements(t, 5)
	seed := randomElements(t, 1)[0]
	prf := p.PRF(seed, input)
	h := p.Hash(append([]fr.Element{seed}, input...))
	assert.True(t, prf.Equal(&h))

	other := randomElements(t, 1)[0]
	prf2 := p.PRF(other, input)
	assert.False(t, prf.Equal(&prf2))
}
