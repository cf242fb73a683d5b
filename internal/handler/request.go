package handler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// bindObject decodes a JSON object body. Missing or malformed bodies
// decode as an empty object.
func bindObject(c *gin.Context) map[string]any {
	body := map[string]any{}
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}

// numberField reads a numeric field that may also arrive as a string.
// Absent, non-numeric and non-finite values yield def.
func numberField(body map[string]any, key string, def float64) float64 {
	var f float64
	switch v := body[key].(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// stringField reads a field as text. Numbers are formatted, other types yield "".
func stringField(body map[string]any, key string) string {
	switch v := body[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// tableNoParam parses the :tableNo path parameter as a number.
func tableNoParam(c *gin.Context) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(c.Param("tableNo")), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
