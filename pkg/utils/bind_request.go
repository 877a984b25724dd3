package utils

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	"github.com/HackYourFuture/dojo/pkg/validation"
)

// BindRequest binds and tag-validates a request body. Malformed JSON and missing
// required fields both surface as a 400.
func BindRequest[T any](c echo.Context) (T, error) {
	var v T

	if err := c.Bind(&v); err != nil {
		return v, httperror.WrapError(http.StatusBadRequest, err)
	}

	if err := validation.Struct(v); err != nil {
		return v, err
	}

	return v, nil
}
