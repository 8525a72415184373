// respond.go - Response encoding with msgpack negotiation
package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// wantsMsgpack reports whether the client asked for a msgpack body.
func wantsMsgpack(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationMsgpack)
}

// respond encodes v as msgpack when the client accepts it and as JSON otherwise.
func respond(c echo.Context, status int, v interface{}) error {
	if !wantsMsgpack(c) {
		return c.JSON(status, v)
	}

	data, err := msgpack.Marshal(v)
	if err != nil {
		return NewInternalError("failed to encode response", err)
	}
	return c.Blob(status, echo.MIMEApplicationMsgpack, data)
}
