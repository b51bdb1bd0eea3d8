// Package config resolves the effective demo-assets configuration.
//
// Values are layered, highest first:
//
//  1. explicit command-line overrides
//  2. DEMO_ASSETS_* environment variables (a working-directory .env is loaded first)
//  3. the active persisted file: ./.demo-assets.json, else ~/.demo-assets.json
//  4. built-in defaults
//
// The package also owns the persisted file's lifecycle: the setup wizard
// writes it, Show prints it and Reset deletes it.
package config
