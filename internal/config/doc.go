// Package config loads, validates, and normalizes cratematch configuration.
//
// Configuration lives in a single TOML file. Every tunable the matching core
// consumes (similarity weights, bonus and penalty magnitudes, acceptance and
// early-exit thresholds, query caps, pool sizes, time budgets) is exposed here
// so the core itself carries no ambient state.
package config
