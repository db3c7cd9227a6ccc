package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/labstack/echo/v4"
)

func TestBuildListsEchoPaths(t *testing.T) {
	raw, err := Build("test")
	assert.NoError(t, err)

	var doc struct {
		Info  struct{ Title, Version string }
		Paths map[string]map[string]struct {
			OperationID string `json:"operationId"`
		}
	}
	assert.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Echo API", doc.Info.Title)
	assert.Equal(t, "test", doc.Info.Version)

	echoPath := doc.Paths["/echo/{message}"]
	assert.Equal(t, "GetEcho", echoPath["get"].OperationID)
	assert.Equal(t, "PutEchoWithCount", echoPath["put"].OperationID)
	assert.Equal(t, "DeleteEcho", echoPath["delete"].OperationID)
	assert.Equal(t, "PostEcho", doc.Paths["/echo"]["post"].OperationID)
	assert.Equal(t, "GetTimestamp", doc.Paths["/timestamp"]["get"].OperationID)
}

func TestRegisterServesSpecAndUI(t *testing.T) {
	e := echo.New()
	assert.NoError(t, Register(e, "test"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, SpecPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/echo/{message}"`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, BasePath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Echo API")
}
