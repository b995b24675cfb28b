package coin

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"math"
	"testing"

	"github.com/iov-one/piggybank/errors"
	"github.com/iov-one/piggybank/piggytest/assert"
)

func TestFromSui(t *testing.T) {
	cases := map[string]struct {
		human        string
		wantTruncate Mist
		wantFloor    Mist
		wantErr      *errors.Error
	}{
		"whole amount": {
			human:        "1",
			wantTruncate: 1000000000,
			wantFloor:    1000000000,
		},
		"decimal that float64 cannot represent": {
			human:        "0.3",
			wantTruncate: 300000000,
			wantFloor:    300000000,
		},
		"with ticker": {
			human:        "2.5 SUI",
			wantTruncate: 2500000000,
			wantFloor:    2500000000,
		},
		"smallest unit": {
			human:        "0.000000001",
			wantTruncate: 1,
			wantFloor:    1,
		},
		"digits below the smallest unit are dropped": {
			human:        "0.1234567899",
			wantTruncate: 123456789,
			wantFloor:    123456789,
		},
		"leading dot": {
			human:        ".5",
			wantTruncate: 500000000,
			wantFloor:    500000000,
		},
		"zero": {
			human:        "0",
			wantTruncate: 0,
			wantFloor:    0,
		},
		"negative": {
			human:   "-1",
			wantErr: errors.ErrAmount,
		},
		"garbage": {
			human:   "one sui",
			wantErr: errors.ErrAmount,
		},
		"wrong ticker": {
			human:   "1 IOV",
			wantErr: errors.ErrAmount,
		},
		"overflow": {
			human:   "18446744074",
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			gotT, err := FromSuiTruncate(tc.human)
			if !tc.wantErr.Is(err) {
				t.Fatalf("truncate: want %v error, got %+v", tc.wantErr, err)
			}
			gotF, err := FromSuiFloor(tc.human)
			if !tc.wantErr.Is(err) {
				t.Fatalf("floor: want %v error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.wantTruncate, gotT)
			assert.Equal(t, tc.wantFloor, gotF)
		})
	}
}

func TestFromSuiFloat(t *testing.T) {
	cases := map[string]struct {
		f       float64
		want    Mist
		wantErr *errors.Error
	}{
		"one":              {f: 1, want: 1000000000},
		"no float residue": {f: 0.3, want: 300000000},
		"one tenth":        {f: 0.1, want: 100000000},
		"truncated":        {f: 1.0000000019, want: 1000000001},
		"negative":         {f: -0.1, wantErr: errors.ErrAmount},
		"not a number":     {f: math.NaN(), wantErr: errors.ErrAmount},
		"infinity":         {f: math.Inf(1), wantErr: errors.ErrAmount},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := FromSuiFloat(tc.f)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// Every value with at most nine decimal places survives a conversion to
	// the smallest unit and back.
	values := []string{"0", "0.1", "0.3", "1", "1.5", "2.000000001", "123456.789", "0.999999999"}
	for _, v := range values {
		for name, conv := range map[string]func(string) (Mist, error){
			"truncate": FromSuiTruncate,
			"floor":    FromSuiFloor,
		} {
			m, err := conv(v)
			assert.Nil(t, err)
			back, err := FromSuiFloor(m.String())
			assert.Nil(t, err)
			if back != m {
				t.Fatalf("%s %q: round trip produced %d, want %d", name, v, back, m)
			}
			if m.Decimal().String() != v {
				t.Fatalf("%s %q: decimal representation is %q", name, v, m.Decimal().String())
			}
		}
	}
}

func TestMistString(t *testing.T) {
	cases := map[Mist]string{
		0:           "0 SUI",
		1:           "0.000000001 SUI",
		300000000:   "0.3 SUI",
		1000000000:  "1 SUI",
		12500000000: "12.5 SUI",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("%d: want %q, got %q", uint64(m), want, got)
		}
	}
}

func TestFormatSui(t *testing.T) {
	assert.Equal(t, "1.2500", Mist(1250000000).FormatSui(4))
	assert.Equal(t, "0.000000", Mist(1).FormatSui(6))
	assert.Equal(t, "2.000000001", Mist(2000000001).FormatSui(9))
}

func TestNewMist(t *testing.T) {
	m, err := NewMist(3, 250000000)
	assert.Nil(t, err)
	assert.Equal(t, Mist(3250000000), m)
	assert.Equal(t, uint64(3), m.Whole())
	assert.Equal(t, uint64(250000000), m.Fractional())

	if _, err := NewMist(1, MistPerSui); !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error, got %v", err)
	}
	if _, err := NewMist(math.MaxUint64, 0); !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow error, got %v", err)
	}
}

func TestMistAdd(t *testing.T) {
	sum, err := Mist(1).Add(2)
	assert.Nil(t, err)
	assert.Equal(t, Mist(3), sum)

	if _, err := Mist(math.MaxUint64).Add(1); !errors.ErrOverflow.Is(err) {
		t.Fatalf("want overflow error, got %v", err)
	}
}

func TestMistCompare(t *testing.T) {
	assert.Equal(t, 1, Mist(2).Compare(1))
	assert.Equal(t, -1, Mist(1).Compare(2))
	assert.Equal(t, 0, Mist(7).Compare(7))
}

func TestMistJSON(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Mist
		wantErr bool
	}{
		"chain string":    {raw: `"1000000000"`, want: 1000000000},
		"number":          {raw: `42`, want: 42},
		"negative number": {raw: `-1`, wantErr: true},
		"not a number":    {raw: `"abc"`, wantErr: true},
		"object":          {raw: `{}`, wantErr: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var m Mist
			err := json.Unmarshal([]byte(tc.raw), &m)
			if tc.wantErr {
				if err == nil {
					t.Fatal("error expected")
				}
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, m)
		})
	}

	raw, err := json.Marshal(Mist(300000000))
	assert.Nil(t, err)
	assert.Equal(t, `"300000000"`, string(raw))
}

func TestMistFlag(t *testing.T) {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	fl.SetOutput(ioutil.Discard)
	var m Mist
	fl.Var(&m, "amount", "")

	assert.Nil(t, fl.Parse([]string{"-amount", "0.3"}))
	assert.Equal(t, Mist(300000000), m)

	if err := fl.Parse([]string{"-amount", "x"}); err == nil {
		t.Fatal("invalid amount must fail parsing")
	}
}
