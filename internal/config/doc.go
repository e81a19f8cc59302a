// Package config provides configuration structures and utilities for blindcheck.
// It defines the limits papers are checked against, where reports go, and how
// named venues from the .blindcheck file override the defaults.
package config
