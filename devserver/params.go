package devserver

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/enums"
)

func idParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func intQuery(c echo.Context, name string, def int) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func descending(c echo.Context) bool {
	return enums.SortOrder(strings.ToLower(c.QueryParam("sortOrder"))) == enums.SortDesc
}

// contains is a case-insensitive substring match; an empty needle matches.
func contains(haystack, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
