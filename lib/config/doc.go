// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the Warden service.
//
// Configuration is loaded from a single YAML file specified by:
//   - WARDEN_CONFIG environment variable, or
//   - --config flag passed to wardend
//
// There are no fallbacks or automatic discovery. The config file is the
// single source of truth; environment variables never override values.
// This keeps configuration deterministic and auditable.
package config
