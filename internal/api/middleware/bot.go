package middleware

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BotSecretHeader carries the shared secret on bot API requests.
const BotSecretHeader = "X-Bot-Secret"

// BotAuthMiddleware guards the bot API surface with a shared secret. The bot
// process is the only expected caller; there is no per-user token here, the
// per-request platform user id is resolved by the bot service.
func BotAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			log.Printf("❌ [BotAuth] BOT_API_SECRET not configured - Path: %s", c.Request.URL.Path)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Bot API is not configured"})
			c.Abort()
			return
		}

		provided := c.GetHeader(BotSecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			log.Printf("❌ [BotAuth] Invalid bot secret - Path: %s", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid bot credentials"})
			c.Abort()
			return
		}
		c.Next()
	}
}
