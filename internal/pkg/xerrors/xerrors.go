package xerrors

import "errors"

// As is a generic wrapper around errors.As.
func As[E error](err error) (E, bool) {
	var target E

	ok := errors.As(err, &target)

	return target, ok
}
