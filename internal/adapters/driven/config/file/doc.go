// Package file stores proofcheck settings in a TOML file, by default
// ~/.proofcheck/config.toml.
package file
