// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment following its `env` and
// `envPrefix` struct tags.
func parseEnv(cfg any) error {
	return parseEnvWithOptions(cfg, env.Options{})
}

// parseEnvWithPrefix is parseEnv with every variable name prefixed, so
// CLIENT_ + SERVER_ADDRESS resolves CLIENT_SERVER_ADDRESS.
func parseEnvWithPrefix(cfg any, prefix string) error {
	return parseEnvWithOptions(cfg, env.Options{Prefix: prefix})
}

func parseEnvWithOptions(cfg any, opts env.Options) error {
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}
