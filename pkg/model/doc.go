// Package model defines the declarative description of a wizard screen: a
// FormDefinition holding an ordered list of Field schemas, each with a kind,
// an optional validator and, for choice kinds, options that may reveal nested
// sub-fields when selected. Definitions carry no behaviour and no locale
// concerns; labels and hints are referenced by translation key and resolved
// by a separate translator (see pkg/render). Builders live in internal/model
// (declarative documents) and pkg/openapi (request body schemas) but return
// the types defined here. A definition is immutable once NewForm returns it;
// only the case record is ever mutated.
package model
