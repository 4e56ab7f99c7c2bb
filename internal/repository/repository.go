package repository

import "errors"

// ErrNotFound is returned when the requested record does not exist or has
// been soft-deleted out of the caller's visibility.
var ErrNotFound = errors.New("record not found")

// Page describes offset pagination shared by the list queries.
type Page struct {
	Number int
	Limit  int
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
	return p
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Limit
}
