package domain

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrIncompleteRecord     = errors.New("incomplete history record")
	ErrRecordNotFound       = errors.New("history record not found")
	ErrUnsupportedStatement = errors.New("unsupported statement")
)

type ErrorKind string

const (
	KindInvalidInput     ErrorKind = "InvalidInput"
	KindIncompleteRecord ErrorKind = "IncompleteRecord"
	KindNotFound         ErrorKind = "NotFound"
	KindInternal         ErrorKind = "Internal"
)

// KindOf classifies an error returned by the core or its stores.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedStatement):
		return KindInvalidInput
	case errors.Is(err, ErrIncompleteRecord):
		return KindIncompleteRecord
	case errors.Is(err, ErrRecordNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
