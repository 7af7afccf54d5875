package config

import "time"

// HostConfig holds crawl overrides for a single host.
type HostConfig struct {
	// UserAgent overrides the User-Agent header for this host.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are extra HTTP headers sent with every request to this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the global depth limit. Negative means unset; zero
	// is a valid override (seed page only).
	Depth *int `yaml:"depth,omitempty"`

	// Timeout overrides the per-request fetch timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// File is the structure of the .webcrawl.yaml configuration file.
type File struct {
	// Defaults apply to every host unless overridden.
	Defaults HostConfig `yaml:"defaults,omitempty"`

	// Hosts maps a host (as it appears in the seed URL, including any
	// port) to its overrides.
	Hosts map[string]HostConfig `yaml:"hosts,omitempty"`
}

// HostConfigFor returns the merged configuration for host: defaults first,
// then the host-specific entry on top.
func (f *File) HostConfigFor(host string) HostConfig {
	result := f.Defaults

	hc, ok := f.Hosts[host]
	if !ok {
		return result
	}

	if hc.UserAgent != "" {
		result.UserAgent = hc.UserAgent
	}
	if hc.Depth != nil {
		result.Depth = hc.Depth
	}
	if hc.Timeout != 0 {
		result.Timeout = hc.Timeout
	}
	if len(hc.Headers) > 0 {
		// Copy before merging so the shared defaults map stays untouched.
		merged := make(map[string]string, len(result.Headers)+len(hc.Headers))
		for k, v := range result.Headers {
			merged[k] = v
		}
		for k, v := range hc.Headers {
			merged[k] = v
		}
		result.Headers = merged
	}

	return result
}

// Apply merges the host overrides into cfg, in place.
func (hc HostConfig) Apply(cfg *Config) {
	if hc.UserAgent != "" {
		cfg.UserAgent = hc.UserAgent
	}
	if hc.Depth != nil && *hc.Depth >= 0 {
		cfg.MaxDepth = *hc.Depth
	}
	if hc.Timeout > 0 {
		cfg.Timeout = hc.Timeout
	}
	if len(hc.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		for k, v := range hc.Headers {
			cfg.Headers[k] = v
		}
	}
}
