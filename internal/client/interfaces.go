// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Runtime is the lifecycle contract the command line drives.
type Runtime interface {
	// Start restores the session and begins background work.
	Start(ctx context.Context)
	// Close stops background work and releases resources.
	Close()
}

var _ Runtime = (*App)(nil)
