package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorsMiddleware(t *testing.T) {
	testCases := []struct {
		name              string
		method            string
		origin            string
		path              string
		expectAllowOrigin string
		expectedStatus    int
		expectNextCalled  bool
	}{
		{
			name:             "NoOrigin",
			path:             "/",
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
		{
			name:              "AllowedOrigin",
			origin:            "http://localhost:8080",
			path:              "/",
			expectAllowOrigin: "http://localhost:8080",
			expectedStatus:    http.StatusOK,
			expectNextCalled:  true,
		},
		{
			name:           "NotAllowedOrigin",
			origin:         "https://www.notallowed.com",
			path:           "/",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:              "PublicPoseApi",
			origin:            "https://www.notallowed.com",
			path:              "/pose/Squat",
			expectAllowOrigin: "*",
			expectedStatus:    http.StatusOK,
			expectNextCalled:  true,
		},
		{
			name:              "PublicBlueprint",
			origin:            "https://elsewhere.org",
			path:              "/blueprint",
			expectAllowOrigin: "*",
			expectedStatus:    http.StatusOK,
			expectNextCalled:  true,
		},
		{
			name:              "Preflight",
			method:            http.MethodOptions,
			origin:            "https://elsewhere.org",
			path:              "/pose/Squat/stream",
			expectAllowOrigin: "*",
			expectedStatus:    http.StatusNoContent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			method := tc.method
			if method == "" {
				method = http.MethodGet
			}

			rr := httptest.NewRecorder()
			req, err := http.NewRequest(method, tc.path, nil)
			require.NoError(t, err)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}

			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})
			Cors()(nextHandler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectAllowOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.expectNextCalled, nextCalled)
		})
	}
}
