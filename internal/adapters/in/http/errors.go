package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"marketplace/internal/pkg/errs"
)

// errorResponse is the uniform error body of the API.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError maps a use case error to its HTTP status. Unclassified errors
// stay opaque 500s so internals never leak into responses.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrDeliveryNotPending),
		errors.Is(err, errs.ErrInsufficientStock),
		errors.Is(err, errs.ErrStockConflict),
		errors.Is(err, errs.ErrVersionConflict):
		status, message = http.StatusConflict, err.Error()
	}

	return ctx.JSON(status, errorResponse{Code: status, Message: message})
}

func writeBindError(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: "invalid request",
	})
}

func pathID(ctx echo.Context, name string) (int64, error) {
	return strconv.ParseInt(ctx.Param(name), 10, 64)
}

func queryID(ctx echo.Context, name string) (int64, error) {
	return strconv.ParseInt(ctx.QueryParam(name), 10, 64)
}
