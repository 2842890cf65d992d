package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches the name of the offending attribute to err. Nested
// attributes use dot notation, for example Deposit.Ticker. A nil err
// yields nil so that validation code can pass sub results through.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &fieldError{name: name, desc: description, parent: err}
}

// AppendField adds a field error for name to errs. A nil fieldErr leaves
// errs unchanged.
func AppendField(errs error, name string, fieldErr error) error {
	return Append(errs, Field(name, fieldErr, ""))
}

type fieldError struct {
	name   string
	desc   string
	parent error
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.name, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.name, e.desc, e.parent)
}

func (e *fieldError) Cause() error { return e.parent }

// FieldErrors collects every error reported for the attribute name,
// descending into wrapped and appended errors.
func FieldErrors(err error, name string) []error {
	var found []error
	for !isNilErr(err) {
		switch e := err.(type) {
		case *fieldError:
			if e.name == name {
				return append(found, err)
			}
			err = e.parent
		case unpacker:
			for _, sub := range e.Unpack() {
				found = append(found, FieldErrors(sub, name)...)
			}
			return found
		case causer:
			err = e.Cause()
		default:
			return found
		}
	}
	return found
}
