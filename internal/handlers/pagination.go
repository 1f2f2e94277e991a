package handlers

import (
	"math"
	"strconv"

	"minishop/internal/apperror"
	"minishop/internal/store"
)

// parsePaginationParams validates page and limit. Both must be positive
// integers, limit is capped at store.MaxPageLimit and the page offset must
// fit in an int64. Callers only paginate when both are supplied.
func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page, err := strconv.ParseInt(pageStr, 10, 64)
	if err != nil || page < 1 {
		return 0, 0, apperror.Validation("invalid pagination params")
	}

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit < 1 || limit > store.MaxPageLimit {
		return 0, 0, apperror.Validation("invalid pagination params")
	}

	if page > math.MaxInt64/limit {
		return 0, 0, apperror.Validation("invalid pagination params")
	}

	return page, limit, nil
}
