package httpkit

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contextOperatorKey = "operator"

// Operator is the staff member behind an authenticated request, as asserted
// by the access token.
type Operator struct {
	ID    uuid.UUID
	Roles []string
}

// HasRole reports whether the operator carries role.
func (o Operator) HasRole(role string) bool {
	return slices.Contains(o.Roles, role)
}

func setOperator(c *gin.Context, op Operator) {
	c.Set(contextOperatorKey, op)
}

// OperatorFrom returns the operator stored by AuthRequired.
func OperatorFrom(c *gin.Context) (Operator, bool) {
	v, ok := c.Get(contextOperatorKey)
	if !ok {
		return Operator{}, false
	}
	op, ok := v.(Operator)
	return op, ok
}

// MustOperator is OperatorFrom for handlers behind AuthRequired. A missing
// operator aborts with 401.
func MustOperator(c *gin.Context) (Operator, bool) {
	op, ok := OperatorFrom(c)
	if !ok {
		abortUnauthorized(c, "unauthorized")
	}
	return op, ok
}
