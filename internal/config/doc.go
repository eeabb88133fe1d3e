// Package config manages user-level settings stored at
// ~/.ansible-scaffold/config.yaml. Values can be overridden by
// ANSIBLE_SCAFFOLD_* environment variables and by command-line flags bound
// into the same Viper instance.
package config
