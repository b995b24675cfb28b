package piggy

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/piggybank/piggytest/assert"
	"github.com/iov-one/piggybank/sui"
)

func TestExtractFields(t *testing.T) {
	cases := map[string]struct {
		obj    *sui.ObjectData
		want   *Fields
		wantOK bool
	}{
		"savings object": {
			obj: moveObject(`{
				"id": {"id": "0xaa"},
				"owner": "0xcc",
				"balance": "500",
				"goal_amount": "1000000000",
				"unlock_timestamp_ms": "1700000000000"
			}`),
			want: &Fields{
				Owner:             "0xcc",
				Balance:           "500",
				GoalAmount:        "1000000000",
				UnlockTimestampMs: "1700000000000",
			},
			wantOK: true,
		},
		"numbers are kept as written": {
			obj: moveObject(`{"owner": "0xcc", "balance": 12, "goal_amount": 1e3, "unlock_timestamp_ms": "x"}`),
			want: &Fields{
				Owner:             "0xcc",
				Balance:           "12",
				GoalAmount:        "1e3",
				UnlockTimestampMs: "x",
			},
			wantOK: true,
		},
		"missing fields are empty": {
			obj:    moveObject(`{"owner": "0xcc"}`),
			want:   &Fields{Owner: "0xcc"},
			wantOK: true,
		},
		"package content": {
			obj: &sui.ObjectData{Content: &sui.ObjectContent{
				DataType: "package",
				Fields:   json.RawMessage(`{"owner": "0xcc"}`),
			}},
			wantOK: false,
		},
		"no content": {
			obj:    &sui.ObjectData{},
			wantOK: false,
		},
		"no object": {
			obj:    nil,
			wantOK: false,
		},
		"fields are not an object": {
			obj:    moveObject(`[1, 2, 3]`),
			wantOK: false,
		},
		"fields are null": {
			obj:    moveObject(`null`),
			wantOK: false,
		},
		"malformed field value": {
			obj:    moveObject(`{"owner": "0xcc", "balance": {"value": "1"}}`),
			wantOK: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, ok := ExtractFields(tc.obj)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsBankType(t *testing.T) {
	cases := map[string]bool{
		"0xbb::counter::PiggyBank":                     true,
		"0x00000000000000000000bb::counter::PiggyBank": true,
		"0x2::coin::Coin<0x2::sui::SUI>":               false,
		"0xbb::counter::PiggyBankCap":                  false,
		"":                                             false,
	}
	for typ, want := range cases {
		if got := IsBankType(typ); got != want {
			t.Errorf("%q: want %v, got %v", typ, want, got)
		}
	}
}

func moveObject(fields string) *sui.ObjectData {
	return &sui.ObjectData{
		Type: "0xbb::counter::PiggyBank",
		Content: &sui.ObjectContent{
			DataType: "moveObject",
			Type:     "0xbb::counter::PiggyBank",
			Fields:   json.RawMessage(fields),
		},
	}
}
