// Package config defines the platform's configuration schema and resolves
// documents against it: compiled-in defaults, a YAML file overlay, and an
// environment overlay, followed by one exhaustive validation pass that
// reports every violation with its document path. The loaded AppConfig is
// immutable and shared by reference across the process.
package config
