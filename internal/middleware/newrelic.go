package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// TransactionAttributes tags the New Relic transaction started by nrgin
// with the table, session and order the request addresses. Server errors
// are reported on the transaction. Without an active transaction it is a no-op.
func TransactionAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		txn := nrgin.Transaction(c)
		if txn == nil {
			c.Next()
			return
		}

		if no := c.Param("tableNo"); no != "" {
			txn.AddAttribute("table_no", no)
		}
		if id := c.Param("id"); id != "" {
			txn.AddAttribute("resource_id", id)
		}

		c.Next()

		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
		if status := c.Writer.Status(); status >= 500 && len(c.Errors) == 0 {
			txn.NoticeError(fmt.Errorf("%s %s returned %d", c.Request.Method, c.FullPath(), status))
		}
	}
}
