package errors

import (
	"reflect"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	// Declare errors upfront so that DeepEqual can be used for comparison.
	var (
		emptyRPCErr     = Field("network.rpc_url", ErrEmpty, "rpc url is required")
		badRPCErr       = Field("network.rpc_url", ErrInput, "scheme")
		badBudgetErr    = Field("gas_budget", ErrAmount, "must be positive")
		networkMultiErr = Field("network", Append(emptyRPCErr, badBudgetErr), "network invalid")
	)

	cases := map[string]struct {
		Err   error
		Field string
		Want  []error
	}{
		"a single error found by the name": {
			Err:   emptyRPCErr,
			Field: "network.rpc_url",
			Want:  []error{emptyRPCErr},
		},
		"two error found by the name": {
			Err:   Append(emptyRPCErr, badRPCErr),
			Field: "network.rpc_url",
			Want:  []error{emptyRPCErr, badRPCErr},
		},
		"field can contain a list": {
			Err:   networkMultiErr,
			Field: "network",
			Want:  []error{networkMultiErr},
		},
		"field can inspect errors tree to find match": {
			Err:   Append(badBudgetErr, Wrap(emptyRPCErr, "outer")),
			Field: "network.rpc_url",
			Want:  []error{emptyRPCErr},
		},
		"nested field matches its parent": {
			Err:   Append(badRPCErr, badBudgetErr),
			Field: "network",
			Want:  []error{badRPCErr},
		},
		"name prefix is not a parent": {
			Err:   badBudgetErr,
			Field: "gas",
			Want:  nil,
		},
		"no match": {
			Err:   Append(emptyRPCErr, badBudgetErr),
			Field: "keystore",
			Want:  nil,
		},
		"nil error": {
			Err:   nil,
			Field: "keystore",
			Want:  nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := FieldErrors(tc.Err, tc.Field)
			if !reflect.DeepEqual(tc.Want, got) {
				t.Logf("want %q", tc.Want)
				t.Logf("got  %q", got)
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestPath(t *testing.T) {
	cases := map[string]struct {
		segments []interface{}
		want     string
	}{
		"single name":         {segments: []interface{}{"gas_budget"}, want: "gas_budget"},
		"nested names":        {segments: []interface{}{"network", "rpc_url"}, want: "network.rpc_url"},
		"list position":       {segments: []interface{}{"inputs", 0}, want: "inputs[0]"},
		"position in between": {segments: []interface{}{"commands", 1, "amounts"}, want: "commands[1].amounts"},
		"numeric string":      {segments: []interface{}{"items", "3"}, want: "items[3]"},
		"empty segments":      {segments: []interface{}{"", "keystore"}, want: "keystore"},
		"nothing":             {segments: nil, want: ""},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Path(tc.segments...); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFieldNil(t *testing.T) {
	if err := Field("name", nil, "whatever"); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
	if err := AppendField(nil, "name", nil); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}

func TestFieldErrorMessage(t *testing.T) {
	err := Field("gas_budget", ErrAmount, "must be at least %d", 1000)
	const want = `field "gas_budget": must be at least 1000: invalid amount`
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if !ErrAmount.Is(err) {
		t.Fatal("field error must keep the root cause")
	}
}
