package errors

import (
	"reflect"
	"strings"
	"testing"
)

func TestAppend(t *testing.T) {
	cases := map[string]struct {
		errs []error
		want error
	}{
		"nothing": {
			errs: nil,
			want: nil,
		},
		"only nils": {
			errs: []error{nil, nil},
			want: nil,
		},
		"single error is returned as is": {
			errs: []error{nil, ErrInput},
			want: ErrInput,
		},
		"two errors": {
			errs: []error{ErrInput, ErrAmount},
			want: multiErr{ErrInput, ErrAmount},
		},
		"lists are flattened": {
			errs: []error{Append(ErrInput, ErrAmount), ErrKey},
			want: multiErr{ErrInput, ErrAmount, ErrKey},
		},
		"duplicates are kept": {
			errs: []error{ErrKey, ErrKey},
			want: multiErr{ErrKey, ErrKey},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := Append(tc.errs...)
			if !reflect.DeepEqual(tc.want, got) {
				t.Fatalf("want %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestMultiErrMessage(t *testing.T) {
	err := Append(ErrInput, ErrAmount)
	msg := err.Error()
	if !strings.HasPrefix(msg, "2 errors occurred") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if !strings.Contains(msg, "* invalid amount") {
		t.Fatalf("unexpected message: %q", msg)
	}
}
