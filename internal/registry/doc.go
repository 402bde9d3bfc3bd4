// Package registry configures package manager config files for the JSR registry.
//
// ConfigWriter idempotently ensures that .npmrc and bunfig.toml declare the
// @jsr scope registry so delegated package manager installs resolve JSR
// packages through npm.jsr.io.
package registry
