package handler

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/rl1809/vending-machine/internal/core/domain"
	"github.com/rl1809/vending-machine/internal/core/service"
)

type errorMapping struct {
	target   error
	httpCode int
	grpcCode codes.Code
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidRefillAmount, http.StatusBadRequest, codes.InvalidArgument},
	{domain.ErrUnknownItemType, http.StatusBadRequest, codes.InvalidArgument},
	{service.ErrInvalidMessage, http.StatusBadRequest, codes.InvalidArgument},
	{service.ErrMissingSender, http.StatusBadRequest, codes.InvalidArgument},
	{domain.ErrUnauthorized, http.StatusForbidden, codes.PermissionDenied},
	{domain.ErrOutOfStock, http.StatusGone, codes.FailedPrecondition},
	{domain.ErrOverflow, http.StatusUnprocessableEntity, codes.OutOfRange},
	{service.ErrAlreadyInitialized, http.StatusConflict, codes.AlreadyExists},
	{domain.ErrNotInitialized, http.StatusNotFound, codes.FailedPrecondition},
}

// classify maps a service error to transport codes. Storage failures and
// anything unrecognised are internal errors.
func classify(err error) (int, codes.Code) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.httpCode, m.grpcCode
		}
	}
	return http.StatusInternalServerError, codes.Internal
}
