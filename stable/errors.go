package stable

import (
	"fmt"

	"github.com/npillmayer/forest"
)

var (
	// ErrAlreadyBorrowed signals that an exclusive borrow was requested while
	// other borrows are outstanding.
	ErrAlreadyBorrowed = fmt.Errorf("%w: already borrowed", forest.ErrBorrowConflict)
	// ErrAlreadyExclusivelyBorrowed signals that a shared borrow was requested
	// while an exclusive borrow is outstanding.
	ErrAlreadyExclusivelyBorrowed = fmt.Errorf("%w: already exclusively borrowed", forest.ErrBorrowConflict)
)
