package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"support-desk-api/pkg/lambda"
)

// CORS applies the same header set the functions return, so routes outside
// /api (health, swagger) behave the same in the browser.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		for key, value := range lambda.DefaultHeaders {
			if key == "Content-Type" {
				continue
			}
			c.Header(key, value)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// Recovery turns a panic into a 500 JSON response and logs it with the request id
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.WithFields(logrus.Fields{
					"request_id": c.GetString(RequestIDKey),
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"panic":      fmt.Sprintf("%v", recovered),
				}).Error("Recovered from panic")

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:     "Internal Server Error",
					Message:   "internal server error",
					RequestID: c.GetString(RequestIDKey),
					Timestamp: time.Now().Format(time.RFC3339),
				})
			}
		}()
		c.Next()
	}
}
