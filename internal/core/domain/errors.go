package domain

import "errors"

// DetailError refines a sentinel error with a caller-facing message.
// errors.Is still matches the sentinel.
type DetailError struct {
	Kind error
	Msg  string
}

func (e *DetailError) Error() string { return e.Msg }

func (e *DetailError) Unwrap() error { return e.Kind }

// Detail returns an error that matches kind and reads as msg.
func Detail(kind error, msg string) error {
	return &DetailError{Kind: kind, Msg: msg}
}

// PublicMessage returns the text safe to show for err when it matches kind.
func PublicMessage(err, kind error) string {
	var d *DetailError
	if errors.As(err, &d) && errors.Is(d.Kind, kind) {
		return d.Msg
	}
	return kind.Error()
}
