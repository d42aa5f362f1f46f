package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryUint64 extracts a positive id from query parameters.
// Returns 0 when the key is missing or not a positive integer.
func QueryUint64(c *gin.Context, key string) uint64 {
	return parseID(c.Query(key))
}

// ParamUint64 extracts a positive id from path parameters.
// Returns 0 when the value is not a positive integer.
func ParamUint64(c *gin.Context, key string) uint64 {
	return parseID(c.Param(key))
}

func parseID(s string) uint64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
