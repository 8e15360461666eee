// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package extractor walks a parsed JavaScript Tree and recognizes the
// AngularJS registration idioms: module declarations, the five
// dependency-injection shapes, scope/controller-as members, route
// bindings, and the module-level helpers (constant/value/decorator).
package extractor

import (
	"errors"
	"fmt"
)

// ErrNonLiteralName is recorded (not returned fatally) when a
// registration call's name argument isn't a string literal, e.g.
// `angular.module('app').controller(nameVar, [...])`. The registration
// is skipped; everything else in the file is still extracted.
var ErrNonLiteralName = errors.New("extractor: registration name is not a string literal")

// BatchError aggregates the non-fatal recognition failures collected
// during Extract. Extract always returns a FileRecord with whatever it
// could recognize, alongside a BatchError describing what it skipped.
type BatchError struct {
	Errors []error
}

// Error summarizes the batch: the single error directly, or a count
// and the first error for more.
func (e *BatchError) Error() string {
	if len(e.Errors) == 0 {
		return "extractor: batch error with no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v (and %d more)", len(e.Errors), e.Errors[0], len(e.Errors)-1)
}

// Unwrap supports errors.Is/errors.As over the individual failures.
func (e *BatchError) Unwrap() []error {
	return e.Errors
}
