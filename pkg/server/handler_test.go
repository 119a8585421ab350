package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMCPRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/mcp", h.MCPHandler)
	return r
}

func postMCP(t *testing.T, r *gin.Engine, sessionID string, body MCPRequest) (*httptest.ResponseRecorder, MCPResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp MCPResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestMCPInitializeThenPing(t *testing.T) {
	h := NewHandler(NewService(&fakeRunner{}), nil, nil, nil, nil)
	r := newMCPRouter(h)

	w, resp := postMCP(t, r, "", MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, resp.Error)

	sessionID := w.Header().Get("Mcp-Session-Id")
	require.NotEmpty(t, sessionID)

	w, resp = postMCP(t, r, sessionID, MCPRequest{JSONRPC: "2.0", ID: 2, Method: "ping"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, resp.Error)
}

func TestMCPRejectsMissingSession(t *testing.T) {
	h := NewHandler(NewService(&fakeRunner{}), nil, nil, nil, nil)
	r := newMCPRouter(h)

	w, resp := postMCP(t, r, "", MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/list"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32000, resp.Error.Code)
}

func TestMCPSessionsAreHandlerScoped(t *testing.T) {
	// Session state lives on the Handler, so a session established against
	// one handler instance is unknown to another.
	first := NewHandler(NewService(&fakeRunner{}), nil, nil, nil, nil)
	second := NewHandler(NewService(&fakeRunner{}), nil, nil, nil, nil)

	w, _ := postMCP(t, newMCPRouter(first), "", MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	sessionID := w.Header().Get("Mcp-Session-Id")
	require.NotEmpty(t, sessionID)

	w, resp := postMCP(t, newMCPRouter(second), sessionID, MCPRequest{JSONRPC: "2.0", ID: 2, Method: "ping"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Invalid session ID", resp.Error.Message)
}
