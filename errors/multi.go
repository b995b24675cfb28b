package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none or only one of the given errors is not nil, that value is returned
// as is. Lists are flattened so that the result never contains a nested list.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
			continue
		}
		res = append(res, e)
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr is a list of errors that were collected together, for example by
// a validation of several configuration fields.
type multiErr []error

func (m multiErr) Error() string {
	points := make([]string, len(m))
	for i, err := range m {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m), strings.Join(points, "\n\t"))
}

// Unpack returns all collected errors.
func (m multiErr) Unpack() []error {
	return []error(m)
}

// unpacker is implemented by an error that is a collection of errors.
type unpacker interface {
	Unpack() []error
}

var _ unpacker = multiErr(nil)
