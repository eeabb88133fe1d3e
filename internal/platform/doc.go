// Package platform smooths over filesystem differences between operating
// systems. Permission bits are applied through an afero.Fs so callers can run
// against the OS filesystem or an in-memory one.
package platform
