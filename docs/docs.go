package docs

import _ "embed"

// OpenAPI - описание API планировщика, вшитое в бинарник.
//
//go:embed planner.openapi.yaml
var OpenAPI []byte
