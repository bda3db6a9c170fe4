package model

import "github.com/goliatone/go-caseflow/pkg/validation"

// RuleChecker parses a showWhen expression without evaluating it.
type RuleChecker interface {
	Check(rule string) error
}

// Options configures the behaviour of the Builder.
type Options struct {
	// Registry resolves textual validation rules. Defaults to
	// validation.Default().
	Registry *validation.Registry
	// Rules checks showWhen expressions at build time. Nil skips the check.
	Rules RuleChecker
	// ConstrainOptions appends a oneOf rule to choice fields that do not
	// declare one, so values outside the declared options are rejected.
	ConstrainOptions bool
}

func defaultOptions() Options {
	return Options{
		Registry:         validation.Default(),
		ConstrainOptions: true,
	}
}
