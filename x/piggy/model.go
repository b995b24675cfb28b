package piggy

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/iov-one/piggybank/sui"
)

const (
	// ModuleName is the name of the Move module implementing the savings
	// object.
	ModuleName = "counter"

	// BankTypeSuffix ends the fully qualified type of every savings
	// object, independent of the package it was published with.
	BankTypeSuffix = ModuleName + "::PiggyBank"
)

// Fields is the projection of a savings object state. Values are kept as
// the chain serializes them, interpretation happens in Derive.
type Fields struct {
	Owner             string `json:"owner"`
	Balance           string `json:"balance"`
	GoalAmount        string `json:"goal_amount"`
	UnlockTimestampMs string `json:"unlock_timestamp_ms"`
}

// ExtractFields returns the savings object fields of given object. False is
// returned if the object content is missing, is not a Move object or cannot
// be decoded.
func ExtractFields(obj *sui.ObjectData) (*Fields, bool) {
	if obj == nil || obj.Content == nil || obj.Content.DataType != "moveObject" {
		return nil, false
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(obj.Content.Fields, &raw); err != nil || raw == nil {
		return nil, false
	}
	var (
		f  Fields
		ok = true
	)
	f.Owner, ok = scalar(raw["owner"], ok)
	f.Balance, ok = scalar(raw["balance"], ok)
	f.GoalAmount, ok = scalar(raw["goal_amount"], ok)
	f.UnlockTimestampMs, ok = scalar(raw["unlock_timestamp_ms"], ok)
	if !ok {
		return nil, false
	}
	return &f, true
}

// scalar returns the text of a JSON string or number. A missing value is an
// empty string. Any other JSON value is rejected.
func scalar(raw json.RawMessage, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

// IsBankType returns true if the declared Move type is a savings object.
func IsBankType(moveType string) bool {
	return strings.HasSuffix(moveType, BankTypeSuffix)
}
