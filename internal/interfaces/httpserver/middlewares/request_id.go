package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

const (
	HeaderRequestID    = "X-Request-Id"
	ginRequestIDKey    = "request_id"
	maxClientRequestID = 128
)

// RequestID tags every request with an id. A client supplied X-Request-Id is reused when it is
// short printable ASCII; anything else is replaced with a fresh UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if !usableRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(ginRequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(platformerrors.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(ginRequestIDKey)
}

func usableRequestID(id string) bool {
	if id == "" || len(id) > maxClientRequestID {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
