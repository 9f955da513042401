package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Code     string `json:"totp_token,omitempty" validate:"omitempty,totp_code" doc:"Six digit code"`
}

type account struct {
	ID        string    `json:"id" example:"0190a5e4-0000-7000-8000-000000000000"`
	CreatedAt time.Time `json:"created_at"`
	Secret    string    `json:"-"`
	Friends   []account `json:"friends,omitempty"`
}

type envelope struct {
	Status string   `json:"status"`
	Data   *account `json:"data,omitempty"`
}

func buildDoc() *Document {
	doc := New("Test API", "1.0.0").
		Description("desc").
		Server("http://localhost:8080", "local").
		Tag("auth", "Authentication").
		BearerAuth("bearerAuth", "Access token").
		CookieAuth("refreshCookie", "refresh_token", "Refresh token")

	doc.Route(http.MethodPost, "/api/v1/auth/login").
		Summary("Log in").
		Tags("auth").
		Body(loginBody{}, "Credentials").
		Response(http.StatusOK, envelope{}, "Logged in").
		Errors(map[string]any{}, map[int]string{400: "Rejected", 429: "Too many attempts"}).
		Build()

	doc.Route(http.MethodGet, "/api/v1/users/:id").
		Security("bearerAuth").
		Response(http.StatusNoContent, nil, "Nothing").
		Build()

	return doc
}

func TestDocument_Operations(t *testing.T) {
	spec := buildDoc().Spec()

	login := spec.Paths.Find("/api/v1/auth/login")
	require.NotNil(t, login)
	require.NotNil(t, login.Post)
	assert.Equal(t, "Log in", login.Post.Summary)
	assert.Equal(t, "postAuthLogin", login.Post.OperationID)
	assert.Equal(t, []string{"auth"}, login.Post.Tags)
	assert.NotNil(t, login.Post.Responses.Value("200"))
	assert.NotNil(t, login.Post.Responses.Value("400"))
	assert.NotNil(t, login.Post.Responses.Value("429"))

	user := spec.Paths.Find("/api/v1/users/{id}")
	require.NotNil(t, user)
	require.NotNil(t, user.Get)
	require.NotNil(t, user.Get.Security)
	assert.Len(t, *user.Get.Security, 1)
	require.Len(t, user.Get.Parameters, 1)
	assert.Equal(t, "id", user.Get.Parameters[0].Value.Name)
	assert.True(t, user.Get.Parameters[0].Value.Required)
	assert.Nil(t, user.Get.Responses.Value("204").Value.Content)

	assert.Contains(t, spec.Components.SecuritySchemes, "bearerAuth")
	assert.Equal(t, "cookie", spec.Components.SecuritySchemes["refreshCookie"].Value.In)
}

func TestDocument_SchemaFromValidateTags(t *testing.T) {
	doc := buildDoc()
	spec := doc.Spec()

	ref := spec.Paths.Find("/api/v1/auth/login").Post.RequestBody.Value.Content.Get("application/json").Schema
	require.Equal(t, "#/components/schemas/loginBody", ref.Ref)

	schema := spec.Components.Schemas["loginBody"].Value
	assert.ElementsMatch(t, []string{"email", "password"}, schema.Required)
	assert.Equal(t, "email", schema.Properties["email"].Value.Format)
	assert.Equal(t, uint64(8), schema.Properties["password"].Value.MinLength)
	assert.Equal(t, "^[0-9]{6}$", schema.Properties["totp_token"].Value.Pattern)
	assert.Equal(t, "Six digit code", schema.Properties["totp_token"].Value.Description)
}

func TestDocument_NestedAndRecursiveStructs(t *testing.T) {
	spec := buildDoc().Spec()

	acct := spec.Components.Schemas["account"]
	require.NotNil(t, acct)
	assert.NotContains(t, acct.Value.Properties, "Secret")
	assert.Equal(t, "date-time", acct.Value.Properties["created_at"].Value.Format)
	assert.Equal(t, "0190a5e4-0000-7000-8000-000000000000", acct.Value.Properties["id"].Value.Example)
	assert.NotContains(t, acct.Value.Required, "friends")

	env := spec.Components.Schemas["envelope"].Value
	assert.Equal(t, "#/components/schemas/account", env.Properties["data"].Ref)
}

func TestDocument_ValidatesAsOpenAPI3(t *testing.T) {
	data, err := buildDoc().JSON()
	require.NoError(t, err)

	loaded, err := openapi3.NewLoader().LoadFromData(data)
	require.NoError(t, err)
	assert.NoError(t, loaded.Validate(t.Context()))
}

func TestDocument_Handlers(t *testing.T) {
	doc := buildDoc()
	e := echo.New()
	e.GET("/openapi.json", doc.JSONHandler())
	e.GET("/openapi.yaml", doc.YAMLHandler())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	assert.Equal(t, "3.0.3", parsed["openapi"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get(echo.HeaderContentType))
	var parsedYAML map[string]any
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &parsedYAML))
	assert.Equal(t, "Test API", parsedYAML["info"].(map[string]any)["title"])
}

func TestOperationID(t *testing.T) {
	assert.Equal(t, "putAuthEnable2fa", operationID("PUT", "/api/v1/auth/enable-2fa"))
	assert.Equal(t, "deleteUsersMe", operationID("DELETE", "/api/v1/users/me"))
	assert.Equal(t, "getHealthz", operationID("GET", "/healthz"))
}

func TestEchoPathToOpenAPI(t *testing.T) {
	assert.Equal(t, "/users/{id}/devices/{device}", echoPathToOpenAPI("/users/:id/devices/:device"))
	assert.Equal(t, "/plain", echoPathToOpenAPI("/plain"))
}

type wrapper[T any] struct {
	Data T `json:"data"`
}

func TestSchemaName(t *testing.T) {
	assert.Equal(t, "account", schemaName("account"))
	assert.Equal(t, "wrapperaccount", schemaName("wrapper[github.com/x/y.account]"))
	assert.Equal(t, "pairAB", schemaName("pair[a.A,b.B]"))
}

func TestDocument_GenericStruct(t *testing.T) {
	doc := New("T", "1")
	doc.Route(http.MethodGet, "/x").Response(http.StatusOK, wrapper[account]{}, "ok").Build()

	ref := doc.Spec().Paths.Find("/x").Get.Responses.Value("200").Value.Content.Get("application/json").Schema
	assert.Equal(t, "#/components/schemas/wrapperaccount", ref.Ref)
	assert.Contains(t, doc.Spec().Components.Schemas, "account")
}

func TestRulePattern(t *testing.T) {
	type body struct {
		Code string `json:"code" validate:"required,totp_code"`
		Slug string `json:"slug" validate:"required,slug"`
	}

	doc := New("Test API", "1.0.0").
		CodeDigits(8).
		RulePattern("slug", "^[a-z-]+$")
	doc.Route(http.MethodPost, "/things").Body(body{}, "").Build()

	schema := doc.Spec().Components.Schemas["body"].Value
	assert.Equal(t, "^[0-9]{8}$", schema.Properties["code"].Value.Pattern)
	assert.Equal(t, "^[a-z-]+$", schema.Properties["slug"].Value.Pattern)
}
