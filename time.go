package piggybank

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/iov-one/piggybank/errors"
)

// UnixMilli represents a point in time as milliseconds since the POSIX
// epoch. This is the precision of the chain clock object and the format of
// the unlock time stored in a savings object.
type UnixMilli int64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixMilli) Time() time.Time {
	return time.UnixMilli(int64(t))
}

// IsZero returns true if this time represents a zero value.
func (t UnixMilli) IsZero() bool {
	return t == 0
}

// Add modifies this time by given duration. Precision below a millisecond
// is lost.
func (t UnixMilli) Add(d time.Duration) UnixMilli {
	return t + UnixMilli(d/time.Millisecond)
}

// Sub returns the duration t-u.
func (t UnixMilli) Sub(u UnixMilli) time.Duration {
	return time.Duration(t-u) * time.Millisecond
}

// AsUnixMilli converts given Time structure into its millisecond
// representation.
func AsUnixMilli(t time.Time) UnixMilli {
	return UnixMilli(t.UnixMilli())
}

// ParseUnixMilli parses a decimal string, as serialized by the chain.
func ParseUnixMilli(raw string) (UnixMilli, error) {
	n, err := strconv.ParseUint(raw, 10, 63)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "invalid millisecond time %q", raw)
	}
	return UnixMilli(n), nil
}

// Validate returns an error if this time value is invalid.
func (t UnixMilli) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

// MarshalJSON serializes the time the way the chain does, as a decimal
// string.
func (t UnixMilli) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(t), 10))
}

// UnmarshalJSON supports a number, a decimal string and a time.Time string.
// A time string is convenient in configuration files.
func (t *UnixMilli) UnmarshalJSON(raw []byte) error {
	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		if ms < 0 {
			return errors.Wrap(errors.ErrInput, "time before epoch")
		}
		*t = UnixMilli(ms)
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "invalid time format")
	}
	if v, err := ParseUnixMilli(s); err == nil {
		*t = v
		return nil
	}
	stdtime, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "invalid time format")
	}
	if stdtime.Before(time.Unix(0, 0)) {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = AsUnixMilli(stdtime)
	return nil
}

// String returns the usual string representation of this time as the time.Time
// structure would, in UTC.
func (t UnixMilli) String() string {
	return t.Time().UTC().String()
}
