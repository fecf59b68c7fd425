package restapi

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	st "github.com/simdex/simdex/settings"
)

// APIError is the standard error response body.
type APIError struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// JSONError replies to the request with the specified error message and HTTP
// code. It does not otherwise end the request; the caller should ensure no
// further writes are done to the gin context.
func JSONError(c *gin.Context, code int, title string, baseErr error) {
	if baseErr == nil {
		baseErr = errors.New("no error provided")
	}
	// print error to logs
	if code >= 500 && code <= 599 {
		// print traceback so we might be able to determine more about where specifically the error occurred
		debug.PrintStack()
		st.Logger.Err(baseErr).Stack().Int("code", code).Str("title", title).Msg("internal restapi error")
	}

	// generate standard error response
	response := APIError{Status: fmt.Sprint(code), Title: title, Detail: baseErr.Error()}
	out, err := json.Marshal(response)
	if err != nil {
		st.Logger.Err(err).Int("code", code).Str("title", title).Str("detail", baseErr.Error()).
			Msg("restapi failed to return json error response")
	}

	// update response
	c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
	c.Writer.WriteHeader(code)
	_, err = c.Writer.Write(out)
	c.Writer.Flush()
	if err != nil {
		log.Println(err)
	}
}

// writeJSON marshals v and writes it with the given status code.
func writeJSON(c *gin.Context, code int, v any) {
	out, err := json.Marshal(v)
	if err != nil {
		JSONError(c, 500, "Marshalling Failed", err)
		return
	}
	c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.Writer.WriteHeader(code)
	if _, err = c.Writer.Write(out); err != nil {
		st.Logger.Err(err).Msg("write response")
	}
}

// intQuery parses an integer query parameter, falling back to def when the
// parameter is absent or unparseable.
func intQuery(c *gin.Context, name string, def int) int {
	raw, ok := c.GetQuery(name)
	if !ok {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

// floatQuery parses a float query parameter, falling back to def when the
// parameter is absent or unparseable.
func floatQuery(c *gin.Context, name string, def float64) float64 {
	raw, ok := c.GetQuery(name)
	if !ok {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return val
}
