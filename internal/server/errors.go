package server

import (
	"net/http"

	"github.com/kaamsetu/kaamsetu/internal/lifecycle"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *lifecycle.ErrCapacityExceeded, *lifecycle.ErrAlreadyAssigned,
		*lifecycle.ErrAlreadyCheckedIn, *lifecycle.ErrJobClosed:
		return http.StatusConflict
	case *lifecycle.ErrNoOpenCheckIn, *lifecycle.ErrNotAssigned,
		*lifecycle.ErrNotEligible:
		return http.StatusUnprocessableEntity
	case *lifecycle.ErrJobNotFound, *lifecycle.ErrWorkerNotFound:
		return http.StatusNotFound
	case *lifecycle.ErrInvalidRating, *lifecycle.ErrInvalidAmount:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
