package response

import (
	"Haven/internal/api/dto"
	"Haven/internal/service"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, fn func(c *gin.Context)) dto.Response {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	require.Equal(t, http.StatusOK, w.Code)
	var res dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestSuccess(t *testing.T) {
	res := run(t, func(c *gin.Context) { Success(c, map[string]int{"n": 1}) })
	assert.Equal(t, Ok, res.Code)
	assert.Equal(t, "success", res.Message)
}

func TestError_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"sentinel", service.ErrConversationNotFound, NotFound, service.ErrConversationNotFound.Error()},
		{"wrapped", fmt.Errorf("load: %w", service.ErrRequestForbidden), Forbidden, ""},
		{"unauthorized", service.UnauthorizedError, Unauthorized, service.UnauthorizedError.Error()},
		{"unknown", errors.New("disk on fire"), InternalServerError, service.UnExpectedError.Error()},
		{"json", &json.UnmarshalTypeError{Value: "number"}, BadRequest, "Json错误"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := run(t, func(c *gin.Context) { Error(c, tc.err) })
			assert.Equal(t, tc.code, res.Code)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, res.Message)
			}
		})
	}
}

func TestError_Validation(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}
	err := validator.New().Struct(payload{})
	require.Error(t, err)

	res := run(t, func(c *gin.Context) { Error(c, err) })
	assert.Equal(t, BadRequest, res.Code)
	assert.Equal(t, service.ErrParamInvalid.Error(), res.Message)
}
