package middleware

import (
	"context"

	"github.com/Romankivs/Lab1Istp/database/model"
	"github.com/Romankivs/Lab1Istp/web/session"

	"github.com/gin-gonic/gin"
)

// StaffResolver reloads the staff member a session names.
type StaffResolver interface {
	Authenticate(ctx context.Context, id int, stamp string) (*model.Staff, bool)
}

// Identity resolves the identity cookie into a staff member on every
// request. A session naming a deleted staff member or carrying a stale
// credential stamp yields no identity. Rejection is left to the routes.
func Identity(resolver StaffResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, stamp := session.GetSessionStaff(c)
		if id != 0 {
			if staff, ok := resolver.Authenticate(c.Request.Context(), id, stamp); ok {
				session.SetStaff(c, staff)
			}
		}
		c.Next()
	}
}
