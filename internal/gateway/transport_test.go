package gateway

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewHTTPClient(t *testing.T) {
	testCases := []struct {
		name       string
		token      string
		rps        float64
		wantHeader string
	}{
		{name: "token is sent as bearer", token: "s3cret", wantHeader: "Bearer s3cret"},
		{name: "no token means unauthenticated", token: ""},
		{name: "throttled client still reaches the server", token: "s3cret", rps: 100, wantHeader: "Bearer s3cret"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotHeader string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotHeader = r.Header.Get("Authorization")
				fmt.Fprint(w, `[]`)
			}))
			defer server.Close()

			client, err := NewHTTPClient(tc.token, tc.rps, zaptest.NewLogger(t))
			require.NoError(t, err)

			for i := 0; i < 3; i++ {
				resp, err := client.Get(server.URL)
				require.NoError(t, err)
				resp.Body.Close()
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			}
			assert.Equal(t, tc.wantHeader, gotHeader)
		})
	}
}
