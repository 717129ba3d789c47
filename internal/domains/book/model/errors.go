package model

import (
	"errors"
	"fmt"

	"library-catalog/internal/shared/apperr"
)

var (
	ErrBookNotFound = fmt.Errorf("book %w", apperr.ErrNotFound)

	// ErrAuthorMissing is returned by stores when a book write names an
	// author that does not exist. Services report it as a field error.
	ErrAuthorMissing = errors.New("book references a missing author")
)

const MsgAuthorMissing = "Author does not exist."
