// Package openapi builds screen forms from the request bodies of an OpenAPI 3
// document. Object properties become fields; enums become choice fields and
// schema constraints become validation rules.
package openapi
