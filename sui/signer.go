package sui

import (
	"encoding/base64"

	"github.com/iov-one/piggybank/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ed25519"
)

// transactionIntent prefixes transaction data before hashing: scope
// TransactionData, version 0, application Sui.
var transactionIntent = []byte{0, 0, 0}

// Signer produces serialized signatures for transaction bytes.
type Signer interface {
	Address() Address
	SignTransaction(txBytes []byte) (string, error)
}

var _ Signer = (*Keypair)(nil)

// SigningDigest returns the hash that is signed for given BCS encoded
// transaction data.
func SigningDigest(txBytes []byte) [32]byte {
	msg := make([]byte, 0, len(transactionIntent)+len(txBytes))
	msg = append(msg, transactionIntent...)
	msg = append(msg, txBytes...)
	return blake2b.Sum256(msg)
}

// SignTransaction signs BCS encoded transaction data and returns the
// serialized signature, base64 of flag || signature || public key.
func (k *Keypair) SignTransaction(txBytes []byte) (string, error) {
	digest := SigningDigest(txBytes)
	sig := ed25519.Sign(k.priv, digest[:])

	pub := k.PublicKey()
	out := make([]byte, 0, 1+len(sig)+len(pub))
	out = append(out, Ed25519Flag)
	out = append(out, sig...)
	out = append(out, pub...)
	return base64.StdEncoding.EncodeToString(out), nil
}

// VerifySignature checks a serialized signature against BCS encoded
// transaction data. The public key carried by the signature must control
// the expected address.
func VerifySignature(txBytes []byte, serialized string, expected Address) error {
	raw, err := base64.StdEncoding.DecodeString(serialized)
	if err != nil {
		return errors.Wrap(errors.ErrKey, "signature is not base64")
	}
	if len(raw) != 1+ed25519.SignatureSize+ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrKey, "invalid signature length %d", len(raw))
	}
	if raw[0] != Ed25519Flag {
		return errors.Wrapf(errors.ErrKey, "unsupported signature scheme %d", raw[0])
	}
	sig := raw[1 : 1+ed25519.SignatureSize]
	pub := ed25519.PublicKey(raw[1+ed25519.SignatureSize:])
	if PublicKeyAddress(pub) != expected {
		return errors.Wrap(errors.ErrKey, "signature public key does not match the sender")
	}
	digest := SigningDigest(txBytes)
	if !ed25519.Verify(pub, digest[:], sig) {
		return errors.Wrap(errors.ErrKey, "invalid signature")
	}
	return nil
}
