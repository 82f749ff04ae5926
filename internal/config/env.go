// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// environ returns the process environment as the map caarlos0/env expects.
// Tests replace it to avoid touching the real environment.
var environ = func() map[string]string {
	return env.ToMap(os.Environ())
}

// parseEnv populates cfg from the environment using the `env` and
// `envPrefix` tags of its fields. Unset pointer fields stay nil.
func parseEnv(cfg any) error {
	err := env.ParseWithOptions(cfg, env.Options{Environment: environ()})
	if err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
