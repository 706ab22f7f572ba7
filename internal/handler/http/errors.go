// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// request has no "Authorization" header.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrNoUserInContext means a vault route ran without the auth middleware.
	ErrNoUserInContext = errors.New("no user ID in request context")

	// ErrInvalidLimit is returned for a non-numeric history limit.
	ErrInvalidLimit = errors.New("limit must be an integer")
)
