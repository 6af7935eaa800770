// Poseidon sponge over the BN254 scalar field, native implementation.
//
// The circuit twin lives in poseidon_circuit.go; both apply the same round
// schedule, constants and mixing matrix in the same order.
package poseidon

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/group"
)

type Poseidon struct {
	params *PoseidonParams
	domain fr.Element
}

// New returns the sponge of the given rate (2, 4 or 8).
func New(rate int) (*Poseidon, error) {
	params, err := DefaultParams(rate)
	if err != nil {
		return nil, err
	}
	domain, err := field.FromBytesLE([]byte(fmt.Sprintf("Poseidon%d", rate)))
	if err != nil {
		return nil, err
	}
	return &Poseidon{params: params, domain: domain}, nil
}

// MustNew is New for callers that construct their sponges once at startup.
// A sponge without parameters cannot be used safely, so this panics.
func MustNew(rate int) *Poseidon {
	p, err := New(rate)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize the poseidon hash function: %v", err))
	}
	return p
}

func (p *Poseidon) Rate() int {
	return p.params.Rate
}

func (p *Poseidon) Params() *PoseidonParams {
	return p.params
}

// Hash returns the first squeezed element of HashMany.
func (p *Poseidon) Hash(input []fr.Element) fr.Element {
	return p.hash(input, 1)[0]
}

// HashMany absorbs [DOMAIN, LEN(input), 0 * (RATE-2), input...] and squeezes
// numOutputs elements.
func (p *Poseidon) HashMany(input []fr.Element, numOutputs int) ([]fr.Element, error) {
	if numOutputs < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutputs, numOutputs)
	}
	return p.hash(input, numOutputs), nil
}

func (p *Poseidon) hash(input []fr.Element, numOutputs int) []fr.Element {
	preimage := make([]fr.Element, 2, p.params.Rate+len(input))
	preimage[0] = p.domain
	preimage[1].SetUint64(uint64(len(input)))
	preimage = append(preimage, make([]fr.Element, p.params.Rate-2)...)
	preimage = append(preimage, input...)

	s := newSponge(p.params)
	s.absorb(preimage)
	return s.squeeze(numOutputs)
}

// HashToScalar keeps the low ScalarSizeInDataBits bits of Hash.
func (p *Poseidon) HashToScalar(input []fr.Element) *big.Int {
	h := p.Hash(input)
	return field.BigFromBitsLE(field.ToBitsLE(h)[:group.ScalarSizeInDataBits])
}

// PRF is Hash keyed by seed.
func (p *Poseidon) PRF(seed fr.Element, input []fr.Element) fr.Element {
	preimage := make([]fr.Element, 0, len(input)+1)
	preimage = append(preimage, seed)
	preimage = append(preimage, input...)
	return p.Hash(preimage)
}

// sponge is a duplex sponge; next is the next absorb or squeeze slot.
type sponge struct {
	params    *PoseidonParams
	state     []fr.Element
	squeezing bool
	next      int
}

func newSponge(params *PoseidonParams) *sponge {
	return &sponge{params: params, state: make([]fr.Element, params.Rate+Capacity)}
}

func (s *sponge) absorb(input []fr.Element) {
	if len(input) == 0 {
		return
	}
	rate := s.params.Rate
	index := s.next
	if s.squeezing {
		s.permute()
		index = 0
	}
	for len(input) > 0 {
		if index == rate {
			s.permute()
			index = 0
		}
		n := min(rate-index, len(input))
		for i := 0; i < n; i++ {
			s.state[Capacity+index+i].Add(&s.state[Capacity+index+i], &input[i])
		}
		index += n
		input = input[n:]
	}
	s.squeezing = false
	s.next = index
}

func (s *sponge) squeeze(numOutputs int) []fr.Element {
	out := make([]fr.Element, numOutputs)
	if numOutputs == 0 {
		return out
	}
	rate := s.params.Rate
	index := s.next
	if !s.squeezing {
		s.permute()
		index = 0
	}
	for o := 0; o < numOutputs; {
		if index == rate {
			s.permute()
			index = 0
		}
		n := min(rate-index, numOutputs-o)
		copy(out[o:o+n], s.state[Capacity+index:Capacity+index+n])
		index += n
		o += n
	}
	s.squeezing = true
	s.next = index
	return out
}

func (s *sponge) permute() {
	p := s.params
	half := p.FullRounds / 2
	alpha := new(big.Int).SetUint64(p.Alpha)
	for r := 0; r < p.FullRounds+p.PartialRounds; r++ {
		isFullRound := r < half || r >= half+p.PartialRounds
		for i := range s.state {
			s.state[i].Add(&s.state[i], &p.Ark[r][i])
		}
		if isFullRound {
			for i := range s.state {
				s.state[i].Exp(s.state[i], alpha)
			}
		} else {
			s.state[0].Exp(s.state[0], alpha)
		}
		s.state = applyMds(s.state, p.Mds)
	}
}

func applyMds(state []fr.Element, mds [][]fr.Element) []fr.Element {
	res := make([]fr.Element, len(state))
	var tmp fr.Element
	for i := range res {
		for j := range state {
			tmp.Mul(&mds[i][j], &state[j])
			res[i].Add(&res[i], &tmp)
		}
	}
	return res
}
