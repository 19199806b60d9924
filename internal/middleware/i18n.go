// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aryanmiramini/shopyar-backend/internal/i18n"
)

// I18nMiddleware negotiates the response language from Accept-Language.
// Persian is the default; any fa variant maps to fa, anything else to en.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := i18n.LangFA

		if header := c.GetHeader("Accept-Language"); header != "" {
			// Handle cases like "fa-IR,fa;q=0.9,en;q=0.8"
			first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
			switch {
			case strings.HasPrefix(first, "fa"):
				lang = i18n.LangFA
			default:
				lang = i18n.LangEN
			}
		}

		c.Set("lang", lang)
		c.Next()
	}
}
