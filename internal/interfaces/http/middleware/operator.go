package middleware

import (
	"github.com/agentdesk/backend/internal/domain/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Operator identity headers set by the admin panel's gateway. Authentication
// itself happens upstream; these carry who acted for the audit trail.
const (
	HeaderOperatorID   = "X-Operator-ID"
	HeaderOperatorName = "X-Operator-Name"

	operatorIDKey   = "operator_id"
	operatorNameKey = "operator_name"
)

// Operator extracts the operator identity headers into the gin context
func Operator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(HeaderOperatorID); id != "" {
			c.Set(operatorIDKey, id)
		}
		if name := c.GetHeader(HeaderOperatorName); name != "" {
			c.Set(operatorNameKey, name)
		}
		c.Next()
	}
}

// GetOperatorID returns the acting operator's ID, or uuid.Nil when absent or
// malformed
func GetOperatorID(c *gin.Context) uuid.UUID {
	idStr := c.GetString(operatorIDKey)
	if idStr == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// GetOperator builds the audit operator from the request: the operator name
// header (falling back to the ID) and the client IP.
func GetOperator(c *gin.Context) billing.Operator {
	name := c.GetString(operatorNameKey)
	if name == "" {
		name = c.GetString(operatorIDKey)
	}
	if name == "" {
		name = "unknown"
	}
	return billing.Operator{
		Name: name,
		IP:   c.ClientIP(),
	}
}
