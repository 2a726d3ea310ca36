package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"eventify/internal/model"

	"github.com/gin-gonic/gin"
)

const invalidJSON = `{"title": `

func createJSONHTTPRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer

	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		_ = json.NewEncoder(&buf).Encode(v)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asPrincipal 略過 JWT 驗證，直接把 Principal 放進 context
func asPrincipal(principal model.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("principal", principal)
		c.Next()
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}
