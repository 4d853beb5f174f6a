package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-secrets-manager/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		status   int
		wantBody string
	}{
		{
			name:     "public keys",
			data:     models.PublicKeysResponse{Keys: map[string][]byte{"7": {0x04, 0x01}}},
			status:   http.StatusOK,
			wantBody: `{"keys":{"7":"BAE="}}`,
		},
		{
			name:     "key rotation",
			data:     models.ErrorResponse{Error: "key", KeyID: 8},
			status:   http.StatusUnauthorized,
			wantBody: `{"error":"key","key_id":8}`,
		},
		{
			name:     "throttled",
			data:     models.ErrorResponse{Error: "throttled", Message: "slow down"},
			status:   http.StatusForbidden,
			wantBody: `{"error":"throttled","message":"slow down"}`,
		},
		{
			name:     "nil",
			status:   http.StatusOK,
			wantBody: `null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.status)

			require.NoError(t, err)
			assert.Equal(t, len(tt.wantBody), n)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestWriteJSON_Unencodable(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteBlob(t *testing.T) {
	w := httptest.NewRecorder()

	n, err := WriteBlob(w, []byte{0x01, 0x02, 0x03}, http.StatusOK)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, w.Body.Bytes())
}
