package model

import (
	"errors"
	"fmt"
	"strings"

	pkgmodel "github.com/goliatone/go-caseflow/pkg/model"
)

var (
	errFormIDMissing = errors.New("model builder: form id is required")
	errNoFields      = errors.New("model builder: form declares no fields")
)

var kindAliases = map[string]pkgmodel.Kind{
	"text":           pkgmodel.KindText,
	"textarea":       pkgmodel.KindTextArea,
	"charactercount": pkgmodel.KindTextArea,
	"radio":          pkgmodel.KindSingleChoice,
	"radios":         pkgmodel.KindSingleChoice,
	"single-choice":  pkgmodel.KindSingleChoice,
	"checkboxes":     pkgmodel.KindMultiChoice,
	"multi-choice":   pkgmodel.KindMultiChoice,
	"number":         pkgmodel.KindNumeric,
	"numeric":        pkgmodel.KindNumeric,
	"currency":       pkgmodel.KindCurrency,
	"file":           pkgmodel.KindFile,
	"file-upload":    pkgmodel.KindFile,
	"structural":     pkgmodel.KindStructural,
	"button":         pkgmodel.KindStructural,
	"hidden":         pkgmodel.KindStructural,
	"heading":        pkgmodel.KindStructural,
}

func resolveKind(raw string) (pkgmodel.Kind, error) {
	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("unknown kind %q", raw)
	}
	return kind, nil
}

func validateDocument(doc FormDocument) error {
	if strings.TrimSpace(doc.ID) == "" {
		return errFormIDMissing
	}
	if len(doc.Fields) == 0 {
		return fmt.Errorf("%w (%s)", errNoFields, doc.ID)
	}
	return nil
}
