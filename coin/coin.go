package coin

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/iov-one/piggybank/errors"
	"github.com/shopspring/decimal"
)

const (
	// Ticker is the currency code of the chain native token.
	Ticker = "SUI"

	// Decimals is the number of fractional digits a whole token is
	// divided into.
	Decimals = 9

	// MistPerSui is the scale between the human unit and the smallest
	// currency unit.
	MistPerSui uint64 = 1000000000 // 10^9
)

// Mist is an amount expressed in the smallest, indivisible currency unit.
// All on-chain amounts are kept in this unit. Conversion to the human unit
// happens only for display and when reading user input.
type Mist uint64

// NewMist returns an amount built out of whole tokens and a fractional part
// already expressed in the smallest unit.
func NewMist(whole, fractional uint64) (Mist, error) {
	if fractional >= MistPerSui {
		return 0, errors.Wrap(errors.ErrAmount, "fractional part out of range")
	}
	if whole > (math.MaxUint64-fractional)/MistPerSui {
		return 0, errors.ErrOverflow
	}
	return Mist(whole*MistPerSui + fractional), nil
}

// Whole returns the number of whole tokens.
func (m Mist) Whole() uint64 {
	return uint64(m) / MistPerSui
}

// Fractional returns the leftover below a whole token, in the smallest unit.
func (m Mist) Fractional() uint64 {
	return uint64(m) % MistPerSui
}

// IsZero returns true if this amount represents no value.
func (m Mist) IsZero() bool {
	return m == 0
}

// Compare returns 1 if m is larger, -1 if o is larger, 0 if equal.
func (m Mist) Compare(o Mist) int {
	switch {
	case m > o:
		return 1
	case m < o:
		return -1
	default:
		return 0
	}
}

// Add combines two amounts. An error is returned if the result would not fit
// the type.
func (m Mist) Add(o Mist) (Mist, error) {
	if uint64(m) > math.MaxUint64-uint64(o) {
		return 0, errors.ErrOverflow
	}
	return m + o, nil
}

// Sui returns the value in the human unit. Use only for display, floating
// point cannot represent every amount.
func (m Mist) Sui() float64 {
	return float64(m) / float64(MistPerSui)
}

// Decimal returns the exact value in the human unit.
func (m Mist) Decimal() decimal.Decimal {
	return decimal.New(int64(m.Whole()), 0).
		Add(decimal.New(int64(m.Fractional()), -Decimals))
}

// FormatSui returns the value in the human unit rounded to the given number
// of decimal places, without the ticker. This mirrors what a user interface
// shows next to a progress bar, for example "1.2500".
func (m Mist) FormatSui(places int32) string {
	return m.Decimal().StringFixed(places)
}

// String provides a human readable representation of the amount. For every
// value the result is a valid human readable format that can be parsed back.
func (m Mist) String() string {
	var b bytes.Buffer

	io.WriteString(&b, strconv.FormatUint(m.Whole(), 10))

	if f := m.Fractional(); f != 0 {
		s := strconv.FormatUint(f, 10)
		// Add leading zeros to convert it to a floating point number.
		s = "." + strings.Repeat("0", Decimals-len(s)) + s
		// Remove trailing zeros as they provide no information.
		s = strings.TrimRight(s, "0")
		io.WriteString(&b, s)
	}

	io.WriteString(&b, " "+Ticker)
	return b.String()
}

// ParseMist parses an amount already expressed in the smallest unit. This is
// the format used by the chain, where u64 values are serialized as decimal
// strings.
func ParseMist(raw string) (Mist, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrAmount, "invalid smallest unit value %q", raw)
	}
	return Mist(n), nil
}

// FromSuiTruncate converts a human readable amount into the smallest unit by
// multiplying with the scale and truncating any digit below the smallest unit.
// Accepted format is a string:
//
//	"<whole>[.<fractional>][ SUI]"
func FromSuiTruncate(human string) (Mist, error) {
	d, err := parseHuman(human)
	if err != nil {
		return 0, err
	}
	return fromDecimal(d.Shift(Decimals).Truncate(0))
}

// FromSuiFloor converts a human readable amount into the smallest unit by
// multiplying with the scale and rounding down. The result never exceeds the
// value the user wrote down.
func FromSuiFloor(human string) (Mist, error) {
	d, err := parseHuman(human)
	if err != nil {
		return 0, err
	}
	return fromDecimal(d.Shift(Decimals).Floor())
}

// FromSuiFloat converts a floating point human amount into the smallest unit
// using truncation. The shortest decimal representation of the float is used,
// so 0.3 converts to exactly 300000000.
func FromSuiFloat(f float64) (Mist, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Wrap(errors.ErrAmount, "not a number")
	}
	if f < 0 {
		return 0, errors.Wrap(errors.ErrAmount, "negative")
	}
	return fromDecimal(decimal.NewFromFloat(f).Shift(Decimals).Truncate(0))
}

func parseHuman(human string) (decimal.Decimal, error) {
	res := humanFormatRx.FindStringSubmatch(strings.TrimSpace(human))
	if res == nil {
		return decimal.Decimal{}, errors.Wrapf(errors.ErrAmount, "invalid format %q", human)
	}
	d, err := decimal.NewFromString(res[1])
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(errors.ErrAmount, "invalid value %q", res[1])
	}
	return d, nil
}

var humanFormatRx = regexp.MustCompile(`^(\d+(?:\.\d+)?|\.\d+)\s*(?:SUI)?$`)

var maxMist = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

func fromDecimal(d decimal.Decimal) (Mist, error) {
	if d.Sign() < 0 {
		return 0, errors.Wrap(errors.ErrAmount, "negative")
	}
	if d.GreaterThan(maxMist) {
		return 0, errors.ErrOverflow
	}
	return Mist(d.BigInt().Uint64()), nil
}

// Set updates this amount to what is provided in the human format. This
// method implements flag.Value interface.
func (m *Mist) Set(raw string) error {
	val, err := FromSuiFloor(raw)
	if err != nil {
		return err
	}
	*m = val
	return nil
}

// MarshalJSON serializes the amount the way the chain does, as a decimal
// string of the smallest unit.
func (m Mist) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(m), 10))
}

// UnmarshalJSON accepts both a decimal string and a JSON number, in the
// smallest unit.
func (m *Mist) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		val, err := ParseMist(s)
		if err != nil {
			return err
		}
		*m = val
		return nil
	}
	var n uint64
	if err := json.Unmarshal(raw, &n); err != nil {
		return errors.Wrap(errors.ErrAmount, "expected a string or a number")
	}
	*m = Mist(n)
	return nil
}
