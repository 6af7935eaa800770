package field

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitsRoundTrip(t *testing.T) {
	for i := 0; i < 32; i++ {
		var e fr.Element
		_, err := e.SetRandom()
		require.NoError(t, err)

		bits := ToBitsLE(e)
		assert.Len(t, bits, SizeInBits)
		back, err := FromBitsLE(bits)
		require.NoError(t, err)
		assert.True(t, e.Equal(&back))

		le := ToBytesLE(e)
		back, err = FromBytesLE(le[:])
		require.NoError(t, err)
		assert.True(t, e.Equal(&back))
	}
}

func TestFromBitsRejectsNonCanonical(t *testing.T) {
	_, err := FromBitsLE(BitsLE(fr.Modulus(), SizeInBits))
	assert.ErrorIs(t, err, ErrNotCanonical)

	_, err = FromBitsLE(make([]bool, SizeInBits+1))
	assert.ErrorIs(t, err, ErrNotCanonical)

	max := new(big.Int).Lsh(big.NewInt(1), SizeInDataBits)
	max.Sub(max, big.NewInt(1))
	_, err = FromBitsLE(BitsLE(max, SizeInDataBits))
	assert.NoError(t, err)
}

func TestBytesBitsLE(t *testing.T) {
	bits := BytesBitsLE([]byte{0x01, 0x80})
	assert.Equal(t, 16, len(bits))
	assert.True(t, bits[0])
	assert.True(t, bits[15])
	assert.Equal(t, 0, big.NewInt(0x8001).Cmp(BigFromBitsLE(bits)))
}
