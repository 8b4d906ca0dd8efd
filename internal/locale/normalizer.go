// Package locale converts user text into the script variant the search index
// was built with, so queries typed in either Chinese script match.
package locale

import (
	"fmt"

	"github.com/longbridgeapp/opencc"
	"github.com/rccc/rccc-search/internal/logger"
	"go.uber.org/zap"
)

// DisabledConversion turns normalization off.
const DisabledConversion = "none"

// Normalizer maps text onto a single canonical script variant. It must be
// deterministic and leave non-Han characters unchanged.
type Normalizer interface {
	Normalize(text string) string
}

// Identity leaves text as it is.
type Identity struct{}

// Normalize implements Normalizer.
func (Identity) Normalize(text string) string { return text }

// OpenCC converts between Chinese script variants using an OpenCC
// conversion profile such as "s2t" (simplified to traditional).
type OpenCC struct {
	conversion string
	cc         *opencc.OpenCC
}

// NewOpenCC loads the dictionaries for conversion.
func NewOpenCC(conversion string) (*OpenCC, error) {
	cc, err := opencc.New(conversion)
	if err != nil {
		return nil, fmt.Errorf("failed to load opencc conversion %q: %w", conversion, err)
	}
	return &OpenCC{conversion: conversion, cc: cc}, nil
}

// Normalize implements Normalizer. On a conversion failure the input is
// returned unchanged.
func (o *OpenCC) Normalize(text string) string {
	if text == "" {
		return text
	}
	out, err := o.cc.Convert(text)
	if err != nil {
		logger.Get().Warn("script conversion failed",
			zap.String("conversion", o.conversion),
			zap.Error(err),
		)
		return text
	}
	return out
}

// New returns the normalizer for a conversion name. DisabledConversion and
// the empty string yield Identity.
func New(conversion string) (Normalizer, error) {
	if conversion == "" || conversion == DisabledConversion {
		return Identity{}, nil
	}
	return NewOpenCC(conversion)
}
