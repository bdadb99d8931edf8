// Package config provides session configuration management for ventcore.
//
// This package manages a YAML-based configuration file that stores device
// nicknames and application preferences such as the default serial port,
// capture directory, and log level. The configuration follows OS-specific
// conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/ventcore/config.yaml or $HOME/.config/ventcore/config.yaml
//   - macOS: $HOME/.config/ventcore/config.yaml
//   - Windows: %LOCALAPPDATA%\ventcore\config.yaml
//
// # Security
//
// This package never persists wire-protocol command overrides: the
// device itself remains the sole authority over its own settings. Only
// session ergonomics (nicknames, ports, directories) are stored here.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetDeviceNickname("1-2-3", "Bench Test Ventilator")
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines. File operations are protected by a mutex to ensure atomic
// writes.
package config
