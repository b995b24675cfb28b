package sui

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/piggybank/errors"
	"github.com/stretchr/testify/require"
)

// rfcSeed is the private key of the first ed25519 test vector of RFC 8032.
const rfcSeed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

func rfcKeypair(t testing.TB) *Keypair {
	t.Helper()
	seed, err := hex.DecodeString(rfcSeed)
	require.NoError(t, err)
	k, err := NewKeypairFromSeed(seed)
	require.NoError(t, err)
	return k
}

func TestKeypairAddress(t *testing.T) {
	k := rfcKeypair(t)
	require.Equal(t,
		"d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a",
		hex.EncodeToString(k.PublicKey()))
	require.Equal(t,
		"0x304af458e90e97c841685b8cbbc59b909f3e2cf150df590ada4c81452c29737d",
		k.Address().String())
}

func TestNewKeypairFromSeedLength(t *testing.T) {
	_, err := NewKeypairFromSeed(make([]byte, 31))
	require.True(t, errors.ErrKey.Is(err), "want key error, got %v", err)
}

func TestBech32Key(t *testing.T) {
	k := rfcKeypair(t)
	enc, err := k.Bech32()
	require.NoError(t, err)
	require.True(t, len(enc) > len(PrivateKeyPrefix))
	require.Equal(t, PrivateKeyPrefix+"1", enc[:len(PrivateKeyPrefix)+1])

	back, err := ParseBech32Key(enc)
	require.NoError(t, err)
	require.Equal(t, k.Address(), back.Address())

	_, err = ParseBech32Key("suiprivkey1qqqqqq")
	require.True(t, errors.ErrKey.Is(err), "want key error, got %v", err)
}

func TestParseKeystore(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    int
		wantErr *errors.Error
	}{
		"empty keystore": {
			raw:  `[]`,
			want: 0,
		},
		"single ed25519 key": {
			// base64 of 0x00 || seed
			raw:  `["AJ1hsZ3v/VpguoRK9JLsLMREScVpezJpGXA7rAMcrn9g"]`,
			want: 1,
		},
		"not an array": {
			raw:     `{"key": 1}`,
			wantErr: errors.ErrKey,
		},
		"not base64": {
			raw:     `["???"]`,
			wantErr: errors.ErrKey,
		},
		"secp256k1 key": {
			raw:     `["AZ1hsZ3v/VpguoRK9JLsLMREScVpezJpGXA7rAMcrn9g"]`,
			wantErr: errors.ErrKey,
		},
		"truncated key": {
			raw:     `["AJ1hsZ3v"]`,
			wantErr: errors.ErrKey,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			keys, err := ParseKeystore([]byte(tc.raw))
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr == nil {
				require.Len(t, keys, tc.want)
			}
		})
	}

	keys, err := ParseKeystore([]byte(`["AJ1hsZ3v/VpguoRK9JLsLMREScVpezJpGXA7rAMcrn9g"]`))
	require.NoError(t, err)
	require.Equal(t, rfcKeypair(t).Address(), keys[0].Address())
}

func TestWriteAndLoadKeystore(t *testing.T) {
	dir, err := ioutil.TempDir("", "keystore")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "nested", "sui.keystore")

	first, err := GenerateKeypair(rand.Reader)
	require.NoError(t, err)
	second, err := GenerateKeypair(bytes.NewReader(bytes.Repeat([]byte{7}, 32)))
	require.NoError(t, err)

	require.NoError(t, WriteKeystore(path, []*Keypair{first, second}))

	// Existing keystore must never be overwritten.
	err = WriteKeystore(path, []*Keypair{second})
	require.True(t, errors.ErrKey.Is(err), "want key error, got %v", err)

	k, err := LoadKey(path, Address{})
	require.NoError(t, err)
	require.Equal(t, first.Address(), k.Address())

	k, err = LoadKey(path, second.Address())
	require.NoError(t, err)
	require.Equal(t, second.Address(), k.Address())

	_, err = LoadKey(path, MustParseAddress("0x1"))
	require.True(t, errors.ErrKey.Is(err), "want key error, got %v", err)

	_, err = LoadKey(filepath.Join(dir, "missing"), Address{})
	require.True(t, errors.ErrKey.Is(err), "want key error, got %v", err)
}

func TestParseAddress(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    string
		wantErr bool
	}{
		"short form": {
			raw:  "0x6",
			want: "0x0000000000000000000000000000000000000000000000000000000000000006",
		},
		"no prefix and upper case": {
			raw:  "ABCDEF",
			want: "0x0000000000000000000000000000000000000000000000000000000000abcdef",
		},
		"full length": {
			raw:  "0x304af458e90e97c841685b8cbbc59b909f3e2cf150df590ada4c81452c29737d",
			want: "0x304af458e90e97c841685b8cbbc59b909f3e2cf150df590ada4c81452c29737d",
		},
		"too long":   {raw: "0x" + string(bytes.Repeat([]byte{'1'}, 65)), wantErr: true},
		"not hex":    {raw: "0xzz", wantErr: true},
		"empty":      {raw: "0x", wantErr: true},
		"odd length": {raw: "0x123", want: "0x0000000000000000000000000000000000000000000000000000000000000123"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			a, err := ParseAddress(tc.raw)
			if tc.wantErr {
				require.True(t, errors.ErrInput.Is(err), "want input error, got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, a.String())
		})
	}
}

func TestParseDigest(t *testing.T) {
	d, err := ParseDigest("4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi")
	require.NoError(t, err)
	require.Equal(t, Digest(filled(0x01)), d)
	require.Equal(t, "4vJ9JU1bJJE96FWSJKvHsmmFADCg4gpZQff4P3bkLKi", d.String())

	_, err = ParseDigest("4vJ9JU1bJJE96FWSJKvHsmm")
	require.True(t, errors.ErrInput.Is(err), "want input error, got %v", err)
	_, err = ParseDigest("0OIl")
	require.True(t, errors.ErrInput.Is(err), "want input error, got %v", err)
}
