// Package config loads and validates the passmint server configuration
// from a YAML file.
//
// Load(path) parses the `server:` section, fills defaults for missing
// fields and validates structural constraints. Watch(ctx, path, onChange)
// hot-reloads the file on write; a file that fails to parse is logged and
// ignored, keeping the previous configuration active.
package config
