package handler

import (
	"net/http"
	"testing"

	"github.com/avaliaai/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler()

	testutil.RunHTTPTestCases(t, h.GetSystemInfo, []testutil.HTTPTestCase{
		{
			Name:           "returns service info",
			Method:         http.MethodGet,
			Path:           "/system/info",
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   map[string]interface{}{"success": true},
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertSuccessResponse(t, tc)

				resp := testutil.JSONResponse(t, tc)
				data, ok := resp["data"].(map[string]interface{})
				if assert.True(t, ok, "expected data object in response") {
					assert.Equal(t, "Avalia Aí Backend", data["name"])
					assert.NotEmpty(t, data["go_version"])
					assert.NotEmpty(t, data["uptime"])
				}
			},
		},
	})
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler()

	testutil.RunHTTPTestCases(t, h.Ping, []testutil.HTTPTestCase{
		{
			Name:           "responds with pong",
			Method:         http.MethodGet,
			Path:           "/system/ping",
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				testutil.AssertSuccessResponse(t, tc)

				resp := testutil.JSONResponse(t, tc)
				data, ok := resp["data"].(map[string]interface{})
				if assert.True(t, ok, "expected data object in response") {
					assert.Equal(t, "pong", data["message"])
					assert.NotEmpty(t, data["timestamp"])
				}
			},
		},
	})
}
