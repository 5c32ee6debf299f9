package branch

import "errors"

var (
	ErrInvalidID         = errors.New("branch: invalid id")
	ErrInvalidBusinessID = errors.New("branch: invalid business id")
	ErrBranchNotFound    = errors.New("branch: not found")
)
