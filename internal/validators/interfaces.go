// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the shape of client input before it reaches the
// sync engine or the account service.
//
// Validation here is structural only: required fields, allowed operations,
// length limits and the history page size. Anything that needs storage (does
// the folder exist, is the version current) is decided further down.
package validators

import "context"

// Validator checks a single input value. When fields are given, only the
// named parts of the value are checked (see the Field* constants).
type Validator interface {
	Validate(ctx context.Context, v any, fields ...string) error
}
