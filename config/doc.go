// Package config provides loading and parsing of phylo.yaml configuration
// files. The configuration covers the tuning constants of the taxonomy
// cache and service, the optional shared Redis tier, and the background
// job runner. Every field is optional; getters return documented defaults.
package config
