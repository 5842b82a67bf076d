// Package config loads matter's own settings with Viper.
//
// The file is config.yaml, looked up in the working directory first and
// then in the matter config directory (see the paths package).
// MATTER_CONFIG_DIR replaces the second location. Every key can also be
// set from the environment with the MATTER_ prefix, for example
// MATTER_WORKERS=4.
//
//	version: 1
//	default_format: auto   # auto, toml, yaml or json
//	output: json           # json, yaml or toml
//	workers: 0             # 0 means one per CPU
//	extensions:
//	  mdx: yaml
//	  tmd: toml
//
// Call [Init] once at startup, then [Load]. Loaded values are checked with
// [Validate].
package config
