// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators holds the input schemas of the pool domain.
//
// Every creatable or updatable shape of the models package has a schema
// built with ozzo-validation. [SchemaValidator] dispatches on the value's
// type; the Prepare* helpers apply documented defaults before validating,
// so callers hand the backend exactly what was validated.
//
// A failed validation wraps [ErrInvalidInput] together with the
// validation.Errors map, keyed by the JSON field name:
//
//	var fieldErrs validation.Errors
//	if errors.As(err, &fieldErrs) {
//		msg := fieldErrs["name"]
//	}
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
