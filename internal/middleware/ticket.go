package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bugfree-api/internal/constants"
	apierrors "github.com/yukikurage/bugfree-api/internal/errors"
)

// LoadTicketID parses the :id path parameter of ticket and attachment
// routes and stores it in the context.
func LoadTicketID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid ID")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTicketID, id)
		c.Next()
	}
}

// GetPathID retrieves the ID stored by LoadTicketID
func GetPathID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyTicketID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok
}
