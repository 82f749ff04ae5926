// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client assembles the client runtime.
//
// It wires the backend adapter, the local session store, the backend client
// and the services into a single [App] whose lifetime matches the process.
package client
