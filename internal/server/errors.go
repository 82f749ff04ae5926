// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoCallbackServer is returned by NewServer when there is no callback
// handler to serve or no address to listen on.
var errNoCallbackServer = errors.New("no callback server to run")
