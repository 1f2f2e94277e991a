package middleware

import (
	"github.com/gin-gonic/gin"

	"minishop/internal/auth"
	"minishop/internal/logger"
	"minishop/internal/metrics"
)

const decisionKey = "decision"

var denyMessages = map[auth.Reason]string{
	auth.ReasonUnauthenticated: "Unauthorized",
	auth.ReasonForbidden:       "Admin only",
}

// Guard enforces rule for the route. It must run after Authenticate.
func Guard(rule auth.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := IdentityFrom(c)
		d := auth.Authorize(id, rule)
		metrics.AuthDecisions.WithLabelValues(rule.String(), d.Outcome()).Inc()

		if !d.Allowed {
			log := logger.For(c.Request.Context(), "auth")
			if id != nil {
				log = log.With("user_id", id.UserID)
			}
			log.Debug("access denied", "rule", rule.String(), "reason", d.Reason, "route", c.FullPath())
			c.AbortWithStatusJSON(d.Status(), gin.H{"error": denyMessages[d.Reason]})
			return
		}

		c.Set(decisionKey, d)
		c.Next()
	}
}

func AdminAuth() gin.HandlerFunc {
	return Guard(auth.AdminOnly)
}

// DecisionFrom returns the decision Guard stored for this request.
func DecisionFrom(c *gin.Context) (auth.Decision, bool) {
	v, ok := c.Get(decisionKey)
	if !ok {
		return auth.Decision{}, false
	}
	d, ok := v.(auth.Decision)
	return d, ok
}
