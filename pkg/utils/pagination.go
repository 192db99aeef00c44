package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetLimitParam reads the "limit" query parameter, falling back to def when it
// is missing or not positive and capping it at max.
func GetLimitParam(c echo.Context, def, max int) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// GetBoolParam reads a boolean query parameter. Unparseable values count as false.
func GetBoolParam(c echo.Context, name string) bool {
	value, err := strconv.ParseBool(c.QueryParam(name))
	return err == nil && value
}
