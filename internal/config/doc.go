// Package config holds the crawl configuration: compiled-in defaults, the
// flat Config struct populated from CLI flags, and the optional YAML
// configuration file with per-host overrides.
//
// Configuration flows one way: flags and file are merged into a Config in
// the command layer, validated once, and passed down by value reference.
// Nothing in this package reads global state after startup.
package config
