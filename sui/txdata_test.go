package sui

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/fardream/go-bcs/bcs"
	"github.com/iov-one/piggybank/errors"
)

func TestTransactionDataEncoding(t *testing.T) {
	sender := Address(filled(0xcc))
	tx := NewTransaction()
	amount := tx.PureU64(300000000)
	bank := tx.Object(filled(0xaa), true)
	coins := tx.SplitCoins(GasCoin(), amount)
	tx.MoveCall(filled(0xbb), "counter", "deposit", bank, coins[0])

	data := TransactionData{
		Sender: sender,
		Inputs: []CallArg{
			{Pure: tx.Inputs[0].Value},
			{Object: &ObjectArg{Shared: &SharedObjectRef{
				ObjectID:             filled(0xaa),
				InitialSharedVersion: 5,
				Mutable:              true,
			}}},
		},
		Commands: tx.Commands,
		Gas: GasData{
			Payment: []ObjectRef{
				{ObjectID: filled(0xdd), Version: 7, Digest: Digest(filled(0x01))},
			},
			Owner:  sender,
			Price:  1000,
			Budget: 10000000,
		},
	}

	const want = "" +
		// V1, ProgrammableTransaction, two inputs
		"000002" +
		// Pure(u64)
		"0008" + "00a3e11100000000" +
		// Object(Shared{id, 5, true})
		"0101" + "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" + "0500000000000000" + "01" +
		// two commands, SplitCoins(GasCoin, [Input(0)])
		"02" + "02" + "00" + "01" + "010000" +
		// MoveCall
		"00" + "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb" +
		"07636f756e746572" + "076465706f736974" + "00" +
		"02" + "010100" + "0300000000" +
		// sender
		"cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc" +
		// gas payment
		"01" + "dddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddd" + "0700000000000000" +
		"20" + "0101010101010101010101010101010101010101010101010101010101010101" +
		// gas owner, price, budget
		"cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc" + "e803000000000000" + "8096980000000000" +
		// no expiration
		"00"

	raw, err := data.Bytes()
	if err != nil {
		t.Fatalf("cannot encode: %s", err)
	}
	if got := hex.EncodeToString(raw); got != want {
		t.Fatalf("unexpected encoding\nwant %s\n got %s", want, got)
	}
}

func TestCallArgEncoding(t *testing.T) {
	ref := ObjectRef{ObjectID: filled(0x01), Version: 1, Digest: Digest(filled(0x02))}
	cases := map[string]struct {
		arg  CallArg
		want []byte
	}{
		"pure": {
			arg:  CallArg{Pure: []byte{1, 2}},
			want: []byte{0, 2, 1, 2},
		},
		"owned object": {
			arg: CallArg{Object: &ObjectArg{ImmOrOwned: &ref}},
			want: concat([]byte{1, 0}, bytes.Repeat([]byte{1}, 32),
				[]byte{1, 0, 0, 0, 0, 0, 0, 0}, []byte{32}, bytes.Repeat([]byte{2}, 32)),
		},
		"immutable shared object": {
			arg: CallArg{Object: &ObjectArg{Shared: &SharedObjectRef{
				ObjectID:             ClockObjectID,
				InitialSharedVersion: 1,
			}}},
			want: concat([]byte{1, 1}, bytes.Repeat([]byte{0}, 31), []byte{6},
				[]byte{1, 0, 0, 0, 0, 0, 0, 0}, []byte{0}),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			w, err := tc.arg.wire()
			if err != nil {
				t.Fatalf("cannot convert: %s", err)
			}
			got, err := bcs.Marshal(w)
			if err != nil {
				t.Fatalf("cannot encode: %s", err)
			}
			if !bytes.Equal(tc.want, got) {
				t.Fatalf("want %x, got %x", tc.want, got)
			}
		})
	}
}

func TestTransactionDataEmptyCommand(t *testing.T) {
	data := TransactionData{Commands: []Command{{}}}
	if _, err := data.Bytes(); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %v", err)
	}
}

func TestPureU64Encoding(t *testing.T) {
	tx := NewTransaction()
	tx.PureU64(300000000)
	if got := hex.EncodeToString(tx.Inputs[0].Value); got != "00a3e11100000000" {
		t.Fatalf("unexpected encoding %s", got)
	}
}

func filled(b byte) Address {
	var a Address
	for i := range a {
		a[i] = b
	}
	return a
}

func concat(chunks ...[]byte) []byte {
	return bytes.Join(chunks, nil)
}
