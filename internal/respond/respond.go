// Package respond writes the JSON envelope shared by every endpoint:
// {"success": true, ...} on success and {"success": false, "error": "..."} on failure.
package respond

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/logger"
)

// OK writes 200 with body merged into the success envelope.
func OK(c *gin.Context, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

// Error maps err onto its status and aborts the request. Internal failures
// are logged with the cause; the client only sees the generic message.
func Error(c *gin.Context, log *slog.Logger, err error) {
	appErr := svcErr.Map(err)
	if appErr.Kind == svcErr.KindInternal {
		logger.FromContext(c.Request.Context(), log).Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"err", err,
		)
	}
	Fail(c, appErr.Status(), appErr.Message)
}

// Fail aborts with an explicit status and message.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

// BindJSON decodes the request body into dst, reporting malformed or
// oversized bodies as validation errors.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return svcErr.Validation("Request body too large")
		}
		return svcErr.Validation("Invalid request body")
	}
	return nil
}

// FormatID renders ids as decimal strings in JSON.
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ParseID parses a decimal id; zero and garbage are rejected.
func ParseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// ID is a request-body identifier accepted either as a JSON string or number.
type ID uint64

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*id = ID(n)
	return nil
}
