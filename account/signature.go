package account

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/PolyhedraZK/ecvm/field"
	"github.com/PolyhedraZK/ecvm/group"
)

// MaxDataSizeInFields bounds the length of a signed message.
const MaxDataSizeInFields = (128 * 1024 * 8) / field.SizeInDataBits

var ErrMessageTooLarge = errors.New("cannot sign the message: the message exceeds maximum allowed size")

// Signature is a Schnorr signature whose challenge also binds the signer's
// compute key and address.
type Signature struct {
	challenge  *big.Int
	response   *big.Int
	computeKey ComputeKey
}

func NewSignature(challenge, response *big.Int, computeKey ComputeKey) *Signature {
	return &Signature{
		challenge:  new(big.Int).Set(challenge),
		response:   new(big.Int).Set(response),
		computeKey: computeKey,
	}
}

func (s *Signature) Challenge() *big.Int {
	return new(big.Int).Set(s.challenge)
}

func (s *Signature) Response() *big.Int {
	return new(big.Int).Set(s.response)
}

func (s *Signature) ComputeKey() ComputeKey {
	return s.computeKey
}

func challengePreimage(gR group.Point, ck ComputeKey, address Address, message []fr.Element) []fr.Element {
	preimage := make([]fr.Element, 0, 4+len(message))
	preimage = append(preimage, gR.X, ck.pkSig.X, ck.prSig.X, address.point.X)
	return append(preimage, message...)
}

// Sign signs message with pk:
//
//	challenge = HashToScalar(nonce*G, pk_sig, pr_sig, address, message)
//	response  = nonce - challenge*sk_sig
//
// Oversized messages are rejected before any randomness is drawn.
func Sign(pk *PrivateKey, message []fr.Element, rng io.Reader) (*Signature, error) {
	if len(message) > MaxDataSizeInFields {
		return nil, fmt.Errorf("%w: %d > %d field elements", ErrMessageTooLarge, len(message), MaxDataSizeInFields)
	}

	nonce, err := group.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("sampling nonce: %w", err)
	}
	gR := group.GeneratorMul(nonce)

	ck := pk.ComputeKey()
	address := ck.Address()

	challenge := poseidon8.HashToScalar(challengePreimage(gR, ck, address, message))
	response := new(big.Int).Mul(challenge, pk.skSig)
	response.Sub(nonce, response)
	response.Mod(response, group.Order())

	return &Signature{challenge: challenge, response: response, computeKey: ck}, nil
}

// SignBytes signs the bits of message.
func SignBytes(pk *PrivateKey, message []byte, rng io.Reader) (*Signature, error) {
	return SignBits(pk, field.BytesBitsLE(message), rng)
}

// SignBits packs message into field elements of SizeInDataBits bits and
// signs them.
func SignBits(pk *PrivateKey, message []bool, rng io.Reader) (*Signature, error) {
	fields, err := packBits(message)
	if err != nil {
		return nil, err
	}
	return Sign(pk, fields, rng)
}

func packBits(bits []bool) ([]fr.Element, error) {
	fields := make([]fr.Element, 0, (len(bits)+field.SizeInDataBits-1)/field.SizeInDataBits)
	for i := 0; i < len(bits); i += field.SizeInDataBits {
		f, err := field.FromBitsLE(bits[i:min(i+field.SizeInDataBits, len(bits))])
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Verify checks that the signature was produced by the owner of address
// over message.
func (s *Signature) Verify(address Address, message []fr.Element) bool {
	if len(message) > MaxDataSizeInFields {
		return false
	}
	order := group.Order()
	if s.challenge.Sign() < 0 || s.challenge.Cmp(order) >= 0 || s.response.Sign() < 0 || s.response.Cmp(order) >= 0 {
		return false
	}
	if !s.computeKey.Address().Equal(address) {
		return false
	}

	gR := group.Add(group.GeneratorMul(s.response), group.ScalarMul(s.computeKey.pkSig, s.challenge))
	challenge := poseidon8.HashToScalar(challengePreimage(gR, s.computeKey, address, message))
	return challenge.Cmp(s.challenge) == 0
}

func (s *Signature) VerifyBytes(address Address, message []byte) bool {
	return s.VerifyBits(address, field.BytesBitsLE(message))
}

func (s *Signature) VerifyBits(address Address, message []bool) bool {
	fields, err := packBits(message)
	if err != nil {
		return false
	}
	return s.Verify(address, fields)
}
