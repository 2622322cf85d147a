package api

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
)

const headerRequestID = "X-Request-Id"

func writeJSON(c *echo.Context, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return writeBlob(c, status, echo.MIMEApplicationJSON, body)
}

func writeBlob(c *echo.Context, status int, contentType string, body []byte) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, contentType)
	res.WriteHeader(status)
	_, err := res.Write(body)
	return err
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, "")
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "invalid_request_error", msg, "not_found")
}

func writeError(c *echo.Context, status int, errType, msg, code string) error {
	return writeJSON(c, status, ErrorBody{Error: ResponseError{
		Message: msg,
		Type:    errType,
		Code:    code,
	}})
}

func newReportID() string {
	return "insp_" + uuid.NewString()
}

// requestID echoes a caller supplied id or mints one.
func requestID(c *echo.Context) string {
	id := c.Request().Header.Get(headerRequestID)
	if id == "" {
		id = "req_" + uuid.NewString()
	}
	c.Response().Header().Set(headerRequestID, id)
	return id
}
