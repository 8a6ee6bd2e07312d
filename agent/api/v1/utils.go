package v1

import (
	"errors"
	"net/http"

	"github.com/erikmagkekse/dshare/model"

	"github.com/labstack/echo/v5"
)

var codeStatus = map[string]int{
	model.ErrInvalid:  http.StatusBadRequest,
	model.ErrNotFound: http.StatusNotFound,
}

func ShareError(c *echo.Context, err error) error {
	var se *model.ShareError
	if errors.As(err, &se) {
		status, found := codeStatus[se.Code]
		if !found {
			status = http.StatusInternalServerError
		}
		return c.JSON(status, ErrorResponse{Error: se.Message, Code: se.Code})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "INTERNAL_ERROR"})
}
