// Package account derives signing keys and addresses on the embedded curve
// and signs field-element messages with them.
package account

import (
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/group"
	"github.com/PolyhedraZK/ecvm/poseidon"
	"github.com/PolyhedraZK/ecvm/program"
)

const (
	signatureSecretKeyDomain  = "AccountSignatureSecretKey"
	signatureRandomizerDomain = "AccountSignatureRandomizer"
)

var (
	poseidon2 = poseidon.MustNew(2)
	poseidon4 = poseidon.MustNew(4)
	poseidon8 = poseidon.MustNew(8)
)

// PrivateKey holds the seed and the two signing scalars derived from it.
type PrivateKey struct {
	seed  fr.Element
	skSig *big.Int
	rSig  *big.Int
}

// NewPrivateKey samples a seed from rng.
func NewPrivateKey(rng io.Reader) (*PrivateKey, error) {
	var b [field.SizeInBytes]byte
	if _, err := io.ReadFull(rng, b[:]); err != nil {
		return nil, fmt.Errorf("sampling seed: %w", err)
	}
	var seed fr.Element
	seed.SetBytes(b[:])
	return FromSeed(seed), nil
}

func FromSeed(seed fr.Element) *PrivateKey {
	return &PrivateKey{
		seed:  seed,
		skSig: deriveScalar(signatureSecretKeyDomain, seed),
		rSig:  deriveScalar(signatureRandomizerDomain, seed),
	}
}

func deriveScalar(domain string, seed fr.Element) *big.Int {
	d, err := field.FromBytesLE([]byte(domain))
	if err != nil {
		panic(err)
	}
	return poseidon2.HashToScalar([]fr.Element{d, seed})
}

func (pk *PrivateKey) Seed() fr.Element {
	return pk.seed
}

func (pk *PrivateKey) ComputeKey() ComputeKey {
	return newComputeKey(group.GeneratorMul(pk.skSig), group.GeneratorMul(pk.rSig))
}

func (pk *PrivateKey) Address() Address {
	return pk.ComputeKey().Address()
}

// ComputeKey is the public part of a private key a signature carries.
type ComputeKey struct {
	pkSig group.Point
	prSig group.Point
	skPrf *big.Int
}

func newComputeKey(pkSig, prSig group.Point) ComputeKey {
	return ComputeKey{
		pkSig: pkSig,
		prSig: prSig,
		skPrf: poseidon4.HashToScalar([]fr.Element{pkSig.X, prSig.X}),
	}
}

// NewComputeKey rebuilds a compute key from its public points.
func NewComputeKey(pkSig, prSig group.Point) (ComputeKey, error) {
	if !group.IsInSubgroup(pkSig) || !group.IsInSubgroup(prSig) {
		return ComputeKey{}, group.ErrNotInSubgroup
	}
	return newComputeKey(pkSig, prSig), nil
}

func (ck ComputeKey) PkSig() group.Point {
	return ck.pkSig
}

func (ck ComputeKey) PrSig() group.Point {
	return ck.prSig
}

func (ck ComputeKey) SkPrf() *big.Int {
	return new(big.Int).Set(ck.skPrf)
}

// Address is pk_sig + pr_sig + sk_prf * G.
func (ck ComputeKey) Address() Address {
	p := group.Add(ck.pkSig, ck.prSig)
	return Address{point: group.Add(p, group.GeneratorMul(ck.skPrf))}
}

// Address is the public identity of an account.
type Address struct {
	point group.Point
}

func (a Address) Point() group.Point {
	return a.point
}

func (a Address) Equal(o Address) bool {
	return a.point.Equal(&o.point)
}

// Literal returns the address as a program literal.
func (a Address) Literal() program.Literal {
	l, err := program.NewAddress(a.point)
	if err != nil {
		panic(err)
	}
	return l
}

func (a Address) String() string {
	return a.Literal().String()
}

// ParseAddress reads the text form of an address.
func ParseAddress(s string) (Address, error) {
	l, err := program.ParseLiteral(s)
	if err != nil {
		return Address{}, err
	}
	if l.Type() != program.Address {
		return Address{}, fmt.Errorf("%w: %s is not an address", program.ErrParse, s)
	}
	return Address{point: l.Point()}, nil
}
