package openapi

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

var timeType = reflect.TypeOf(time.Time{})

func (d *Document) schemaFor(example any) *openapi3.SchemaRef {
	if example == nil {
		return &openapi3.SchemaRef{Value: openapi3.NewObjectSchema()}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.schemaFromType(reflect.TypeOf(example), map[reflect.Type]bool{})
}

func (d *Document) schemaFromType(t reflect.Type, visiting map[reflect.Type]bool) *openapi3.SchemaRef {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &openapi3.SchemaRef{Value: openapi3.NewStringSchema()}
	case reflect.Bool:
		return &openapi3.SchemaRef{Value: openapi3.NewBoolSchema()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &openapi3.SchemaRef{Value: openapi3.NewIntegerSchema()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &openapi3.SchemaRef{Value: openapi3.NewIntegerSchema().WithMin(0)}
	case reflect.Float32, reflect.Float64:
		return &openapi3.SchemaRef{Value: openapi3.NewFloat64Schema()}
	case reflect.Slice, reflect.Array:
		s := openapi3.NewArraySchema()
		s.Items = d.schemaFromType(t.Elem(), visiting)
		return &openapi3.SchemaRef{Value: s}
	case reflect.Map:
		s := openapi3.NewObjectSchema()
		s.AdditionalProperties = openapi3.AdditionalProperties{Schema: d.schemaFromType(t.Elem(), visiting)}
		return &openapi3.SchemaRef{Value: s}
	case reflect.Struct:
		if t == timeType {
			return &openapi3.SchemaRef{Value: openapi3.NewDateTimeSchema()}
		}
		return d.structRef(t, visiting)
	default:
		return &openapi3.SchemaRef{Value: openapi3.NewObjectSchema()}
	}
}

// structRef registers named structs under components/schemas and refers to
// them. Names colliding across packages get a numeric suffix.
func (d *Document) structRef(t reflect.Type, visiting map[reflect.Type]bool) *openapi3.SchemaRef {
	if t.Name() == "" {
		return &openapi3.SchemaRef{Value: d.structSchema(t, visiting)}
	}

	key := t.PkgPath() + "." + t.Name()
	if name, ok := d.schemas[key]; ok {
		return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
	}
	if visiting[t] {
		return &openapi3.SchemaRef{Value: openapi3.NewObjectSchema()}
	}

	base := schemaName(t.Name())
	name := base
	for i := 2; d.spec.Components.Schemas[name] != nil; i++ {
		name = base + strconv.Itoa(i)
	}

	visiting[t] = true
	schema := d.structSchema(t, visiting)
	delete(visiting, t)

	d.schemas[key] = name
	d.spec.Components.Schemas[name] = &openapi3.SchemaRef{Value: schema}
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func (d *Document) structSchema(t reflect.Type, visiting map[reflect.Type]bool) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Properties = make(openapi3.Schemas)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		ref := d.schemaFromType(field.Type, visiting)
		if ref.Ref == "" {
			d.applyValidateTag(ref.Value, field.Tag.Get("validate"))
			if doc := field.Tag.Get("doc"); doc != "" {
				ref.Value.Description = doc
			}
			if ex := field.Tag.Get("example"); ex != "" {
				ref.Value.Example = ex
			}
		}
		schema.Properties[name] = ref

		if isRequired(field, opts) {
			schema.Required = append(schema.Required, name)
		}
	}
	return schema
}

func isRequired(field reflect.StructField, jsonOpts string) bool {
	for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
		if rule == "required" {
			return true
		}
	}
	if field.Tag.Get("validate") != "" {
		return false
	}
	return !strings.Contains(jsonOpts, "omitempty") && field.Type.Kind() != reflect.Pointer
}

// applyValidateTag mirrors the request validation rules into the schema.
func (d *Document) applyValidateTag(s *openapi3.Schema, tag string) {
	for _, rule := range strings.Split(tag, ",") {
		name, arg, _ := strings.Cut(rule, "=")
		if pattern, ok := d.patterns[name]; ok {
			s.Pattern = pattern
			continue
		}
		switch name {
		case "email":
			s.Format = "email"
		case "min":
			if n, err := strconv.ParseUint(arg, 10, 64); err == nil {
				s.MinLength = n
			}
		case "max":
			if n, err := strconv.ParseUint(arg, 10, 64); err == nil {
				s.MaxLength = &n
			}
		case "len":
			if n, err := strconv.ParseUint(arg, 10, 64); err == nil {
				s.MinLength = n
				s.MaxLength = &n
			}
		}
	}
}

// schemaName turns a Go type name into a component name. Instantiated
// generics lose their package paths: envelope[pkg.User] becomes envelopeUser.
func schemaName(typeName string) string {
	base, args, generic := strings.Cut(typeName, "[")
	if !generic {
		return base
	}

	var b strings.Builder
	b.WriteString(base)
	for _, arg := range strings.Split(strings.TrimSuffix(args, "]"), ",") {
		arg = strings.TrimLeft(strings.TrimSpace(arg), "*[]")
		if i := strings.LastIndexByte(arg, '.'); i >= 0 {
			arg = arg[i+1:]
		}
		for _, r := range arg {
			if r == '_' || r == '-' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
