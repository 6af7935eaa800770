// Package bhp implements the Bowe-Hopwood-Pedersen collision-resistant hash
// and its randomized commitment, natively and over circuit wires.
//
// A preimage is cut into 3-bit chunks (b0, b1, b2); chunk k of window w adds
// (1 + b0 + 2*b1) * (-1)^b2 * base[w][k] to the digest. Inputs longer than one
// block are chained: the first block is [DOMAIN || LEN(input) || input...],
// every later block is [x(previous digest) || input...].
package bhp

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/logger"

	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/group"
)

// ChunkSize is the number of preimage bits consumed per base.
const ChunkSize = 3

// lengthBits is the width of the input length in the first block.
const lengthBits = 64

var ErrEmptyInput = errors.New("bhp input is empty")

// BHP is one size variant. Bases are derived on first use and then shared.
type BHP struct {
	name       string
	numWindows int
	windowSize int
	bases      func() *bases
}

type bases struct {
	domain []bool
	// lookup[w][k] holds {1, 2, 3, 4} * base[w][k]
	lookup [][][4]group.Point
	random group.Point
}

var (
	BHP256  = newBHP("BHP256", 3, 57)
	BHP512  = newBHP("BHP512", 6, 43)
	BHP768  = newBHP("BHP768", 15, 23)
	BHP1024 = newBHP("BHP1024", 8, 54)
)

// Variant returns the BHP instance named by its chunk size in bits.
func Variant(bits int) (*BHP, error) {
	switch bits {
	case 256:
		return BHP256, nil
	case 512:
		return BHP512, nil
	case 768:
		return BHP768, nil
	case 1024:
		return BHP1024, nil
	}
	return nil, fmt.Errorf("invalid bhp variant: BHP%d", bits)
}

func newBHP(name string, numWindows, windowSize int) *BHP {
	b := &BHP{name: name, numWindows: numWindows, windowSize: windowSize}
	b.bases = sync.OnceValue(b.setup)
	return b
}

func (b *BHP) setup() *bases {
	domain := field.BytesBitsLE([]byte(b.name))
	domainBits := field.SizeInDataBits - lengthBits
	if len(domain) > domainBits {
		panic("bhp domain too long")
	}
	domain = append(domain, make([]bool, domainBits-len(domain))...)

	var two, three, four big.Int
	two.SetUint64(2)
	three.SetUint64(3)
	four.SetUint64(4)
	lookup := make([][][4]group.Point, b.numWindows)
	for w := range lookup {
		lookup[w] = make([][4]group.Point, b.windowSize)
		for k := range lookup[w] {
			base := group.HashToCurve(b.name, uint32(w*b.windowSize+k))
			lookup[w][k] = [4]group.Point{
				base,
				group.ScalarMul(base, &two),
				group.ScalarMul(base, &three),
				group.ScalarMul(base, &four),
			}
		}
	}

	log := logger.Logger()
	log.Debug().
		Str("variant", b.name).
		Int("windows", b.numWindows).
		Int("windowSize", b.windowSize).
		Msg("derived bhp bases")

	return &bases{
		domain: domain,
		lookup: lookup,
		random: group.HashToCurve(b.name+"Randomizer", 0),
	}
}

func (b *BHP) Name() string {
	return b.name
}

// HasherBits is the number of bits one block can hold.
func (b *BHP) HasherBits() int {
	return b.numWindows * b.windowSize * ChunkSize
}

// MaxInputBitsPerIteration is the number of input bits consumed per block.
func (b *BHP) MaxInputBitsPerIteration() int {
	return b.HasherBits() - field.SizeInDataBits
}

// blocks splits input into per-block slices.
func (b *BHP) blocks(n int) [][2]int {
	step := b.MaxInputBitsPerIteration()
	var out [][2]int
	for start := 0; start < n; start += step {
		out = append(out, [2]int{start, min(start+step, n)})
	}
	return out
}

// HashUncompressed returns the digest point of input.
func (b *BHP) HashUncompressed(input []bool) (group.Point, error) {
	if len(input) == 0 {
		return group.Point{}, ErrEmptyInput
	}
	bs := b.bases()
	digest := group.Zero()
	preimage := make([]bool, 0, b.HasherBits())
	for i, blk := range b.blocks(len(input)) {
		preimage = preimage[:0]
		if i == 0 {
			preimage = append(preimage, bs.domain...)
			preimage = append(preimage, field.BitsLE(new(big.Int).SetUint64(uint64(len(input))), lengthBits)...)
		} else {
			preimage = append(preimage, field.ToBitsLE(digest.X)[:field.SizeInDataBits]...)
		}
		preimage = append(preimage, input[blk[0]:blk[1]]...)
		digest = b.hashBlock(bs, preimage)
	}
	return digest, nil
}

func (b *BHP) hashBlock(bs *bases, bits []bool) group.Point {
	sum := group.Zero()
	for k := 0; k*ChunkSize < len(bits); k++ {
		var c [ChunkSize]bool
		copy(c[:], bits[k*ChunkSize:])
		idx := 0
		if c[0] {
			idx |= 1
		}
		if c[1] {
			idx |= 2
		}
		m := bs.lookup[k/b.windowSize][k%b.windowSize][idx]
		if c[2] {
			m = group.Neg(m)
		}
		sum = group.Add(sum, m)
	}
	return sum
}

// Hash returns the x-coordinate of the digest.
func (b *BHP) Hash(input []bool) (fr.Element, error) {
	h, err := b.HashUncompressed(input)
	if err != nil {
		return fr.Element{}, err
	}
	return h.X, nil
}

// CommitUncompressed returns Hash(input) + randomizer * H.
func (b *BHP) CommitUncompressed(input []bool, randomizer *big.Int) (group.Point, error) {
	h, err := b.HashUncompressed(input)
	if err != nil {
		return group.Point{}, err
	}
	return group.Add(h, group.ScalarMul(b.bases().random, randomizer)), nil
}

// Commit returns the x-coordinate of CommitUncompressed.
func (b *BHP) Commit(input []bool, randomizer *big.Int) (fr.Element, error) {
	c, err := b.CommitUncompressed(input, randomizer)
	if err != nil {
		return fr.Element{}, err
	}
	return c.X, nil
}
