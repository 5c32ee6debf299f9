package employee

import "errors"

var (
	ErrInvalidID         = errors.New("employee: invalid id")
	ErrInvalidBusinessID = errors.New("employee: invalid business id")
	ErrEmployeeNotFound  = errors.New("employee: not found")
)
