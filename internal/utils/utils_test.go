package utils

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestValidateStruct_CustomTags(t *testing.T) {
	type req struct {
		Name     string `validate:"required,notblank"`
		TokenID  string `validate:"required,token_id"`
		Currency string `validate:"currency"`
	}

	assert.NoError(t, ValidateStruct(req{Name: "Apes", TokenID: "tok-1", Currency: "ETH"}))

	err := ValidateStruct(req{Name: "  ", TokenID: "has space", Currency: "DOGE"})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 3)
	tags := map[string]string{}
	for _, e := range errs {
		tags[e.Field] = e.Tag
	}
	assert.Equal(t, "notblank", tags["name"])
	assert.Equal(t, "token_id", tags["tokenID"])
	assert.Equal(t, "currency", tags["currency"])

	long := strings.Repeat("x", 256)
	assert.Error(t, ValidateStruct(req{Name: "a", TokenID: long, Currency: "SOL"}))
}

func TestPaginationParams(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/collections?page=3&limit=10", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, 20, params.Offset())

	c.Request = httptest.NewRequest(http.MethodGet, "/collections?page=-1&limit=1000", nil)
	params = GetPaginationParams(c)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)

	result := CreatePaginationResult([]string{}, 41, params)
	assert.Equal(t, 3, result.TotalPages)

	c.Request = httptest.NewRequest(http.MethodGet, "/collections?page=9223372036854775807&limit=100", nil)
	params = GetPaginationParams(c)
	assert.Equal(t, maxPage, params.Page)
	assert.Positive(t, params.Offset())

	assert.Equal(t, math.MaxInt, PaginationParams{Page: math.MaxInt, Limit: 100}.Offset())
	assert.Zero(t, PaginationParams{Page: 0, Limit: 10}.Offset())
}

func TestJWT_RoundTrip(t *testing.T) {
	token, err := GenerateJWT("secret", "user-42", time.Hour)
	require.NoError(t, err)

	subject, err := ValidateJWT("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)

	_, err = ValidateJWT("other", token)
	assert.Error(t, err)

	expired, err := GenerateJWT("secret", "user-42", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateJWT("secret", expired)
	assert.Error(t, err)
}

func TestGenerateRecordID(t *testing.T) {
	id, err := GenerateRecordID("mint")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^mint_\d{13}_[a-z0-9]{9}$`), id)

	other, err := GenerateRecordID("mint")
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestHashString(t *testing.T) {
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", HashString("hello"))
}

func TestErrorResponseEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponse(c, http.StatusConflict, "CONFLICT", "taken", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "data")
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, "CONFLICT", errBody["code"])
	assert.Equal(t, "taken", errBody["message"])
}

func TestGetIdentityFromContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "anonymous", GetIdentityFromContext(c))

	c.Set(ContextKeyIdentity, "user-1")
	assert.Equal(t, "user-1", GetIdentityFromContext(c))
}
