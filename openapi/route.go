package openapi

import (
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

type RouteBuilder struct {
	doc       *Document
	method    string
	path      string
	operation *openapi3.Operation
}

func (rb *RouteBuilder) Summary(summary string) *RouteBuilder {
	rb.operation.Summary = summary
	return rb
}

func (rb *RouteBuilder) Description(description string) *RouteBuilder {
	rb.operation.Description = description
	return rb
}

func (rb *RouteBuilder) OperationID(id string) *RouteBuilder {
	rb.operation.OperationID = id
	return rb
}

func (rb *RouteBuilder) Tags(tags ...string) *RouteBuilder {
	rb.operation.Tags = append(rb.operation.Tags, tags...)
	return rb
}

func (rb *RouteBuilder) CookieParam(name, description string) *RouteBuilder {
	rb.operation.Parameters = append(rb.operation.Parameters, &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name:        name,
			In:          openapi3.ParameterInCookie,
			Description: description,
			Schema:      &openapi3.SchemaRef{Value: openapi3.NewStringSchema()},
		},
	})
	return rb
}

func (rb *RouteBuilder) Body(example any, description string) *RouteBuilder {
	rb.operation.RequestBody = &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Description: description,
			Required:    true,
			Content:     openapi3.NewContentWithJSONSchemaRef(rb.doc.schemaFor(example)),
		},
	}
	return rb
}

// Response documents a status. A nil example documents a response without a body.
func (rb *RouteBuilder) Response(status int, example any, description string) *RouteBuilder {
	resp := &openapi3.Response{Description: &description}
	if example != nil {
		resp.Content = openapi3.NewContentWithJSONSchemaRef(rb.doc.schemaFor(example))
	}
	rb.operation.Responses.Set(strconv.Itoa(status), &openapi3.ResponseRef{Value: resp})
	return rb
}

// Errors documents several error statuses sharing one body shape.
func (rb *RouteBuilder) Errors(example any, statuses map[int]string) *RouteBuilder {
	for status, description := range statuses {
		rb.Response(status, example, description)
	}
	return rb
}

func (rb *RouteBuilder) Security(schemes ...string) *RouteBuilder {
	if rb.operation.Security == nil {
		rb.operation.Security = openapi3.NewSecurityRequirements()
	}
	for _, scheme := range schemes {
		rb.operation.Security.With(openapi3.NewSecurityRequirement().Authenticate(scheme))
	}
	return rb
}

func (rb *RouteBuilder) Build() {
	rb.addPathParams()
	if rb.operation.OperationID == "" {
		rb.operation.OperationID = operationID(rb.method, rb.path)
	}
	rb.doc.addOperation(rb.method, rb.path, rb.operation)
}

// operationID derives "postAuthLogin" from POST /api/v1/auth/login.
func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, part := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '-' || r == ':' || r == '_'
	}) {
		if part == "api" || (len(part) == 2 && part[0] == 'v' && part[1] >= '0' && part[1] <= '9') {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}

// addPathParams declares every :name segment of the echo path.
func (rb *RouteBuilder) addPathParams() {
	for _, part := range strings.Split(rb.path, "/") {
		name, ok := strings.CutPrefix(part, ":")
		if !ok || name == "" {
			continue
		}
		rb.operation.Parameters = append(rb.operation.Parameters, &openapi3.ParameterRef{
			Value: openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()),
		})
	}
}
