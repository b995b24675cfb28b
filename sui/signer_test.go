package sui

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/iov-one/piggybank/errors"
	"github.com/stretchr/testify/require"
)

func TestSignTransaction(t *testing.T) {
	k := rfcKeypair(t)
	txBytes := []byte("transaction data")

	sig, err := k.SignTransaction(txBytes)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sig)
	require.NoError(t, err)
	require.Len(t, raw, 97)
	require.Equal(t, Ed25519Flag, raw[0])
	require.Equal(t, []byte(k.PublicKey()), raw[65:])

	require.NoError(t, VerifySignature(txBytes, sig, k.Address()))

	// Ed25519 signatures are deterministic.
	again, err := k.SignTransaction(txBytes)
	require.NoError(t, err)
	require.Equal(t, sig, again)
}

func TestVerifySignatureFailures(t *testing.T) {
	k := rfcKeypair(t)
	txBytes := []byte("transaction data")
	sig, err := k.SignTransaction(txBytes)
	require.NoError(t, err)

	cases := map[string]struct {
		txBytes []byte
		sig     string
		addr    Address
	}{
		"modified transaction": {
			txBytes: []byte("transaction date"),
			sig:     sig,
			addr:    k.Address(),
		},
		"other sender": {
			txBytes: txBytes,
			sig:     sig,
			addr:    MustParseAddress("0x1"),
		},
		"not base64": {
			txBytes: txBytes,
			sig:     "!!",
			addr:    k.Address(),
		},
		"truncated": {
			txBytes: txBytes,
			sig:     sig[:20],
			addr:    k.Address(),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := VerifySignature(tc.txBytes, tc.sig, tc.addr)
			require.True(t, errors.ErrKey.Is(err), "want key error, got %v", err)
		})
	}
}

func TestSigningDigest(t *testing.T) {
	// blake2b-256 of the transaction intent followed by the data
	d := SigningDigest([]byte("transaction data"))
	require.Equal(t,
		"1c28284f89b3704d3b1728c903e9e0a965c914009a836af7c15006a7dee8d26f",
		hex.EncodeToString(d[:]))
}
