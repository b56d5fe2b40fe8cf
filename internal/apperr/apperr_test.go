package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/gym-api/internal/store"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindServer, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestFromStore(t *testing.T) {
	assert.Nil(t, FromStore(nil, "Bill"))

	e := FromStore(fmt.Errorf("lookup: %w", store.ErrNotFound), "Bill")
	assert.Equal(t, KindNotFound, e.Kind)
	assert.Equal(t, "Bill not found", e.Message)

	e = FromStore(store.ErrDuplicate, "Supplement")
	assert.Equal(t, KindConflict, e.Kind)

	boom := errors.New("connection reset")
	e = FromStore(boom, "Bill")
	assert.Equal(t, KindServer, e.Kind)
	assert.ErrorIs(t, e, boom)
}

func TestWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		exposeStack bool
		wantStatus  int
		wantStack   bool
	}{
		{name: "validation", err: Validation("bad %s", "input"), wantStatus: http.StatusBadRequest},
		{name: "plain error is server", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
		{name: "stack exposed", err: errors.New("boom"), exposeStack: true, wantStatus: http.StatusInternalServerError, wantStack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			Write(c, tt.err, tt.exposeStack)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["message"])
			stack, ok := body["stack"].(string)
			assert.Equal(t, tt.wantStack, ok && stack != "")
		})
	}
}
