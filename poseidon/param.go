package poseidon

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/logger"
	"golang.org/x/crypto/blake2b"
)

const (
	// Capacity is the number of hidden state elements.
	Capacity = 1
	// Alpha is the S-box exponent; gcd(5, p-1) = 1 for BN254.
	Alpha = 5
	// FullRounds is split evenly before and after the partial rounds.
	FullRounds = 8
)

var ErrNoParameters = errors.New("no poseidon parameters for the requested rate")

// ErrInvalidOutputs is returned when a negative number of outputs is squeezed.
var ErrInvalidOutputs = errors.New("poseidon output count must not be negative")

// partial round counts per rate (state width rate+1), from the Poseidon paper
// tables for a 254-bit field and alpha = 5
var partialRounds = map[int]int{
	2: 57,
	4: 60,
	8: 63,
}

// PoseidonParams is the parameter set of one sponge instance. It is shared by
// every Poseidon of the same rate and must not be modified.
type PoseidonParams struct {
	Rate          int
	FullRounds    int
	PartialRounds int
	Alpha         uint64
	// round constants, indexed [round][state slot]
	Ark [][]fr.Element
	// mixing matrix, indexed [row][column]
	Mds [][]fr.Element
}

var defaultParams = map[int]func() *PoseidonParams{
	2: sync.OnceValue(func() *PoseidonParams { return newPoseidonParams(2) }),
	4: sync.OnceValue(func() *PoseidonParams { return newPoseidonParams(4) }),
	8: sync.OnceValue(func() *PoseidonParams { return newPoseidonParams(8) }),
}

// DefaultParams returns the shared parameters for rate, deriving them on first use.
func DefaultParams(rate int) (*PoseidonParams, error) {
	get, ok := defaultParams[rate]
	if !ok {
		return nil, fmt.Errorf("%w: rate %d", ErrNoParameters, rate)
	}
	return get(), nil
}

func newPoseidonParams(rate int) *PoseidonParams {
	width := rate + Capacity
	numPartialRounds := partialRounds[rate]
	numRounds := FullRounds + numPartialRounds

	ark := make([][]fr.Element, numRounds)
	for i := range ark {
		ark[i] = make([]fr.Element, width)
		for j := range ark[i] {
			ark[i][j] = roundConstant(rate, i, j)
		}
	}

	// Cauchy matrix 1/(x_i + y_j) with x_i = i, y_j = width + j
	mds := make([][]fr.Element, width)
	for i := range mds {
		mds[i] = make([]fr.Element, width)
		for j := range mds[i] {
			mds[i][j].SetUint64(uint64(i + width + j))
			mds[i][j].Inverse(&mds[i][j])
		}
	}

	log := logger.Logger()
	log.Debug().
		Int("rate", rate).
		Int("fullRounds", FullRounds).
		Int("partialRounds", numPartialRounds).
		Msg("derived poseidon parameters")

	return &PoseidonParams{
		Rate:          rate,
		FullRounds:    FullRounds,
		PartialRounds: numPartialRounds,
		Alpha:         Alpha,
		Ark:           ark,
		Mds:           mds,
	}
}

func roundConstant(rate, round, slot int) fr.Element {
	seed := []byte(fmt.Sprintf("PoseidonARK%d", rate))
	seed = binary.LittleEndian.AppendUint32(seed, uint32(round))
	seed = binary.LittleEndian.AppendUint32(seed, uint32(slot))
	digest := blake2b.Sum512(seed)
	var e fr.Element
	e.SetBytes(digest[:])
	return e
}
