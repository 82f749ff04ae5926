// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/ubuntu-pools/internal/adapter"
)

// mapBackendError translates a data API rejection into a service business
// error. notFound is returned for a single-row read that matched nothing.
// The original error stays reachable through errors.Is and errors.As.
func mapBackendError(err, notFound error) error {
	if err == nil {
		return nil
	}

	var kind error
	switch {
	case errors.Is(err, adapter.ErrNotAcceptable) && notFound != nil:
		kind = notFound
	case errors.Is(err, adapter.ErrUnauthorized):
		kind = ErrSessionExpired
	case errors.Is(err, adapter.ErrForbidden):
		kind = ErrPermissionDenied
	case errors.Is(err, adapter.ErrConflict):
		kind = ErrAlreadyExists
	case errors.Is(err, adapter.ErrInternalServerError),
		errors.Is(err, adapter.ErrBadGateway),
		errors.Is(err, adapter.ErrServiceUnavailable):
		kind = ErrBackendUnavailable
	default:
		return err
	}

	return fmt.Errorf("%w: %w", kind, err)
}
