package model

import (
	"fmt"

	"library-catalog/internal/shared/apperr"
)

var ErrAuthorNotFound = fmt.Errorf("author %w", apperr.ErrNotFound)
