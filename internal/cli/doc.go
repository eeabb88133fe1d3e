// Package cli defines the Cobra command for the ansible-scaffold binary. The
// root command takes a single project name, resolves settings and hands the
// work to the scaffold package; this package only handles argument checks,
// flags and output formatting.
package cli
