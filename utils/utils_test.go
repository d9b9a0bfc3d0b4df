package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("UTILS_TEST_KEY", "set")
	assert.Equal(t, "set", EnvOrDefault("UTILS_TEST_KEY", "fallback"))

	t.Setenv("UTILS_TEST_KEY", "   ")
	assert.Equal(t, "fallback", EnvOrDefault("UTILS_TEST_KEY", "fallback"))

	assert.Equal(t, "fallback", EnvOrDefault("UTILS_TEST_MISSING", "fallback"))
}

func TestGenerateReferenceCode(t *testing.T) {
	code, err := GenerateReferenceCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	for _, r := range code {
		assert.Contains(t, referenceCharset, string(r))
	}

	_, err = GenerateReferenceCode(0)
	assert.Error(t, err)
}

func TestResponseEnvelopes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSONError(c, http.StatusNotFound, "Resource not found")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"status":"error"`))
	assert.True(t, strings.Contains(w.Body.String(), `"message":"Resource not found"`))

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	JSONSuccess(c, http.StatusOK, "Deleted")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"status":"success"`))
}
