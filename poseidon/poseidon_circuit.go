package poseidon

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"

	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/group"
)

// Circuit is the sponge bound to a constraint system.
type Circuit struct {
	api    frontend.API
	params *PoseidonParams
	domain *big.Int
}

func (p *Poseidon) Circuit(api frontend.API) *Circuit {
	return &Circuit{api: api, params: p.params, domain: field.ToBig(p.domain)}
}

func (c *Circuit) Hash(input []frontend.Variable) frontend.Variable {
	return c.hash(input, 1)[0]
}

func (c *Circuit) HashMany(input []frontend.Variable, numOutputs int) ([]frontend.Variable, error) {
	if numOutputs < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutputs, numOutputs)
	}
	return c.hash(input, numOutputs), nil
}

func (c *Circuit) hash(input []frontend.Variable, numOutputs int) []frontend.Variable {
	preimage := make([]frontend.Variable, 0, c.params.Rate+len(input))
	preimage = append(preimage, c.domain, len(input))
	for i := 2; i < c.params.Rate; i++ {
		preimage = append(preimage, 0)
	}
	preimage = append(preimage, input...)

	s := newCircuitSponge(c.api, c.params)
	s.absorb(preimage)
	return s.squeeze(numOutputs)
}

func (c *Circuit) HashToScalar(input []frontend.Variable) frontend.Variable {
	h := c.Hash(input)
	bits := c.api.ToBinary(h, field.SizeInBits)
	return c.api.FromBinary(bits[:group.ScalarSizeInDataBits]...)
}

func (c *Circuit) PRF(seed frontend.Variable, input []frontend.Variable) frontend.Variable {
	preimage := make([]frontend.Variable, 0, len(input)+1)
	preimage = append(preimage, seed)
	preimage = append(preimage, input...)
	return c.Hash(preimage)
}

type circuitSponge struct {
	api       frontend.API
	params    *PoseidonParams
	state     []frontend.Variable
	squeezing bool
	next      int
}

func newCircuitSponge(api frontend.API, params *PoseidonParams) *circuitSponge {
	state := make([]frontend.Variable, params.Rate+Capacity)
	for i := range state {
		state[i] = 0
	}
	return &circuitSponge{api: api, params: params, state: state}
}

func (s *circuitSponge) absorb(input []frontend.Variable) {
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
			s.state[Capacity+index+i] = s.api.Add(s.state[Capacity+index+i], input[i])
		}
		index += n
		input = input[n:]
	}
	s.squeezing = false
	s.next = index
}

func (s *circuitSponge) squeeze(numOutputs int) []frontend.Variable {
	out := make([]frontend.Variable, numOutputs)
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

func (s *circuitSponge) permute() {
	p := s.params
	half := p.FullRounds / 2
	for r := 0; r < p.FullRounds+p.PartialRounds; r++ {
		isFullRound := r < half || r >= half+p.PartialRounds
		for i := range s.state {
			s.state[i] = s.api.Add(s.state[i], field.ToBig(p.Ark[r][i]))
		}
		if isFullRound {
			for i := range s.state {
				s.state[i] = sBoxCircuit(s.api, s.state[i], p.Alpha)
			}
		} else {
			s.state[0] = sBoxCircuit(s.api, s.state[0], p.Alpha)
		}
		s.state = applyMdsCircuit(s.api, s.state, p.Mds)
	}
}

func applyMdsCircuit(api frontend.API, state []frontend.Variable, mds [][]fr.Element) []frontend.Variable {
	res := make([]frontend.Variable, len(state))
	for i := range res {
		terms := make([]frontend.Variable, len(state))
		for j := range state {
			terms[j] = api.Mul(state[j], field.ToBig(mds[i][j]))
		}
		res[i] = api.Add(terms[0], terms[1], terms[2:]...)
	}
	return res
}

// S-Box: square and multiply on the exponent
func sBoxCircuit(api frontend.API, x frontend.Variable, alpha uint64) frontend.Variable {
	var res frontend.Variable
	base := x
	for alpha > 0 {
		if alpha&1 == 1 {
			if res == nil {
				res = base
			} else {
				res = api.Mul(res, base)
			}
		}
		alpha >>= 1
		if alpha > 0 {
			base = api.Mul(base, base)
		}
	}
	return res
}
