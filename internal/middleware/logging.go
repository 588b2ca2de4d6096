// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/nft-marketplace/internal/models"
	"github.com/javajoker/nft-marketplace/internal/store"
	"github.com/javajoker/nft-marketplace/internal/utils"
)

const auditWriteTimeout = 5 * time.Second

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Auditor records every mutating request. Writes happen off the request
// path; Wait blocks until the pending ones are flushed.
type Auditor struct {
	store    store.AuditStore
	basePath string
	wg       sync.WaitGroup
}

func NewAuditor(audit store.AuditStore, basePath string) *Auditor {
	return &Auditor{store: audit, basePath: strings.TrimRight(basePath, "/")}
}

func (a *Auditor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		var requestBody []byte
		var readErr error
		if c.Request.Body != nil {
			requestBody, readErr = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		var tooLarge *http.MaxBytesError
		if errors.As(readErr, &tooLarge) {
			requestBody = nil
			utils.PayloadTooLargeResponse(c)
			c.Abort()
		} else {
			c.Next()
		}

		var requestData map[string]interface{}
		if len(requestBody) > 0 {
			_ = json.Unmarshal(requestBody, &requestData)
		}

		path := strings.TrimPrefix(c.Request.URL.Path, a.basePath)
		entry := &models.AuditLog{
			Identity:     utils.GetIdentityFromContext(c),
			Action:       c.Request.Method + " " + c.Request.URL.Path,
			ResourceType: extractResourceType(path),
			ResourceID:   extractResourceID(c, blw.body.Bytes()),
			StatusCode:   c.Writer.Status(),
			NewValues:    models.JSONB(requestData),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			CreatedAt:    time.Now(),
		}

		a.wg.Add(1)
		go func() {
			defer a.wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
			defer cancel()

			if err := a.store.CreateAuditLog(ctx, entry); err != nil {
				logrus.WithError(err).WithField("action", entry.Action).Error("Failed to create audit log")
			}
		}()
	}
}

func (a *Auditor) Wait() {
	a.wg.Wait()
}

func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}

// extractResourceID prefers the route parameter and falls back to the id
// returned by create endpoints.
func extractResourceID(c *gin.Context, responseBody []byte) string {
	if id := c.Param("id"); id != "" {
		return id
	}

	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(responseBody, &resp); err != nil {
		return ""
	}
	for _, key := range []string{"collectionId", "mintId", "listingId"} {
		if id, ok := resp.Data[key].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"identity":   utils.GetIdentityFromContext(c),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := logrus.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("Request processed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}
