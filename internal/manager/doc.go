// Package manager detects the active JavaScript package manager and delegates
// install and remove operations to it.
//
// Each supported manager (npm, yarn, pnpm, bun) is a PackageManager variant
// carrying its own subcommand and dependency-section flag vocabulary; the
// Service resolves a variant for an explicit working directory, ensures the
// matching JSR registry configuration exists, and forwards the package list.
package manager
