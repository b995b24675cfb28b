package sui

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/piggybank/crypto/bech32"
	"github.com/iov-one/piggybank/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ed25519"
)

// Ed25519Flag is the signature scheme flag of ed25519 keys. It prefixes
// stored keys, serialized signatures and the address preimage.
const Ed25519Flag byte = 0x00

// PrivateKeyPrefix is the human readable part of bech32 encoded private
// keys.
const PrivateKeyPrefix = "suiprivkey"

// Keypair is an ed25519 signing key.
type Keypair struct {
	priv ed25519.PrivateKey
}

// NewKeypairFromSeed returns the keypair derived from a 32 byte seed.
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrKey, "seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Keypair{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// GenerateKeypair creates a new random keypair. Use crypto/rand.Reader
// unless a deterministic key is needed.
func GenerateKeypair(rand io.Reader) (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, errors.Wrap(errors.ErrKey, err.Error())
	}
	return &Keypair{priv: priv}, nil
}

// PublicKey returns the public part of the key.
func (k *Keypair) PublicKey() ed25519.PublicKey {
	return k.priv.Public().(ed25519.PublicKey)
}

// Seed returns the 32 byte seed the key is derived from.
func (k *Keypair) Seed() []byte {
	return k.priv.Seed()
}

// Address returns the account address controlled by this key.
func (k *Keypair) Address() Address {
	return PublicKeyAddress(k.PublicKey())
}

// PublicKeyAddress returns the address of an ed25519 public key, which is
// the blake2b-256 hash of the scheme flag followed by the key.
func PublicKeyAddress(pub ed25519.PublicKey) Address {
	preimage := make([]byte, 0, 1+len(pub))
	preimage = append(preimage, Ed25519Flag)
	preimage = append(preimage, pub...)
	return Address(blake2b.Sum256(preimage))
}

// Bech32 returns the key in the format used by wallets to export keys.
func (k *Keypair) Bech32() (string, error) {
	s, err := bech32.Encode(PrivateKeyPrefix, k.flagged())
	if err != nil {
		return "", errors.Wrap(errors.ErrKey, err.Error())
	}
	return s, nil
}

// flagged returns the scheme flag followed by the seed. This is how keys
// are stored in both the keystore and the bech32 form.
func (k *Keypair) flagged() []byte {
	return append([]byte{Ed25519Flag}, k.Seed()...)
}

func keypairFromFlagged(raw []byte) (*Keypair, error) {
	if len(raw) != 1+ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrKey, "invalid key length %d", len(raw))
	}
	if raw[0] != Ed25519Flag {
		return nil, errors.Wrapf(errors.ErrKey, "unsupported signature scheme %d", raw[0])
	}
	return NewKeypairFromSeed(raw[1:])
}

// ParseBech32Key decodes a "suiprivkey1..." encoded key.
func ParseBech32Key(s string) (*Keypair, error) {
	raw, err := bech32.DecodeWithPrefix(PrivateKeyPrefix, strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrap(errors.ErrKey, err.Error())
	}
	return keypairFromFlagged(raw)
}

// ParseKeystore decodes keystore content: a JSON array of base64 encoded
// keys, each prefixed with its scheme flag.
func ParseKeystore(raw []byte) ([]*Keypair, error) {
	var encoded []string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, errors.Wrap(errors.ErrKey, "keystore must be a JSON array of strings")
	}
	keys := make([]*Keypair, 0, len(encoded))
	for i, enc := range encoded {
		b, err := base64.StdEncoding.DecodeString(enc)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrKey, "key %d: invalid base64", i)
		}
		k, err := keypairFromFlagged(b)
		if err != nil {
			return nil, errors.Wrapf(err, "key %d", i)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// LoadKeystore reads all keys from a keystore file.
func LoadKeystore(path string) ([]*Keypair, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrKey, err.Error())
	}
	return ParseKeystore(raw)
}

// LoadKey returns a key from the keystore file. If addr is zero, the first
// key is returned. Otherwise the key controlling addr is returned.
func LoadKey(path string, addr Address) (*Keypair, error) {
	keys, err := LoadKeystore(path)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, errors.Wrapf(errors.ErrKey, "no keys in %s", path)
	}
	if addr.IsZero() {
		return keys[0], nil
	}
	for _, k := range keys {
		if k.Address() == addr {
			return k, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrKey, "no key for %s in %s", addr, path)
}

// WriteKeystore writes given keys to a new keystore file. An existing file
// is never overwritten.
func WriteKeystore(path string, keys []*Keypair) error {
	encoded := make([]string, len(keys))
	for i, k := range keys {
		encoded[i] = base64.StdEncoding.EncodeToString(k.flagged())
	}
	raw, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrKey, err.Error())
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrap(errors.ErrKey, err.Error())
		}
	}
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrap(errors.ErrKey, err.Error())
	}
	if _, err := fd.Write(raw); err != nil {
		fd.Close()
		return errors.Wrap(errors.ErrKey, err.Error())
	}
	if err := fd.Close(); err != nil {
		return errors.Wrap(errors.ErrKey, err.Error())
	}
	return nil
}
