// Package docs generates the OpenAPI document for the echo endpoints and
// serves it together with Swagger UI.
package docs

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/swaggest/swgui/v5emb"

	"github.com/iliyamo/echo-api/internal/model"
)

const (
	// BasePath is where Swagger UI is mounted; GET / redirects here.
	BasePath = "/swagger/"
	// SpecPath serves the generated OpenAPI document.
	SpecPath = BasePath + "openapi.json"

	title = "Echo API"
)

type messagePath struct {
	Message string `path:"message" description:"Text to echo back"`
}

type countedMessage struct {
	Message string `path:"message" description:"Text to echo back"`
	Count   int    `query:"count" required:"true" minimum:"1" maximum:"10" description:"Number of lines to return"`
}

type operation struct {
	method, path, id, summary string
	req                       interface{}
	badRequest                bool
}

var operations = []operation{
	{http.MethodGet, "/echo/{message}", "GetEcho", "Echo a message", new(messagePath), false},
	{http.MethodPost, "/echo", "PostEcho", "Echo a JSON request, optionally uppercased", new(model.EchoRequest), true},
	{http.MethodPut, "/echo/{message}", "PutEchoWithCount", "Echo a message count times", new(countedMessage), true},
	{http.MethodDelete, "/echo/{message}", "DeleteEcho", "Echo a message annotated with the method", new(messagePath), false},
	{http.MethodGet, "/timestamp", "GetTimestamp", "Current server time", nil, false},
}

func plainText(status int) openapi.ContentOption {
	return func(cu *openapi.ContentUnit) {
		cu.HTTPStatus = status
		cu.ContentType = "text/plain"
	}
}

// Build reflects the echo routes into an OpenAPI 3 JSON document.
func Build(version string) ([]byte, error) {
	r := openapi3.Reflector{}
	r.Spec = &openapi3.Spec{Openapi: "3.0.3"}
	r.Spec.Info.
		WithTitle(title).
		WithVersion(version).
		WithDescription("Reflects client-supplied strings back, optionally transformed.")

	for _, op := range operations {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			return nil, fmt.Errorf("operation %s: %w", op.id, err)
		}
		oc.SetID(op.id)
		oc.SetSummary(op.summary)
		oc.SetTags("echo")
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		oc.AddRespStructure(new(string), plainText(http.StatusOK))
		if op.badRequest {
			oc.AddRespStructure(new(string), plainText(http.StatusBadRequest))
		}
		if err := r.AddOperation(oc); err != nil {
			return nil, fmt.Errorf("operation %s: %w", op.id, err)
		}
	}
	return r.Spec.MarshalJSON()
}

// Register mounts the OpenAPI document and Swagger UI on e.
func Register(e *echo.Echo, version string) error {
	spec, err := Build(version)
	if err != nil {
		return err
	}
	ui := v5emb.New(title, SpecPath, BasePath)

	e.GET(SpecPath, func(c echo.Context) error {
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, spec)
	})
	e.GET(BasePath+"*", echo.WrapHandler(ui))
	e.GET("/swagger", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, BasePath)
	})
	return nil
}
