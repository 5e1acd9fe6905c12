package domain

import "errors"

var (
	// ErrProductNotFound is returned when a food cannot be found in USDA database
	ErrProductNotFound = errors.New("product not found in USDA database")

	// ErrFoodUnavailable is returned when no detail record could be obtained for a food.
	// Network failures, timeouts and non-success responses all collapse into it.
	ErrFoodUnavailable = errors.New("food detail unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidPortion is returned when a portion does not belong to the food detail being scaled
	ErrInvalidPortion = errors.New("portion does not belong to food detail")

	// ErrInvalidAmount is returned when a scaling amount is negative or not a finite number
	ErrInvalidAmount = errors.New("amount must be a non-negative finite number")

	// ErrInvalidDate is returned when a log date is not formatted as YYYY-MM-DD
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

	// ErrNotFound is returned when a stored record (log entry, preset) does not exist
	ErrNotFound = errors.New("record not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUSDAAPIFailure is returned when USDA API request fails
	ErrUSDAAPIFailure = errors.New("USDA API request failed")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
