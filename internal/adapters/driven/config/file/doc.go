// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage at ~/.lwb/config.toml
//
// Keys are addressed with dot notation ("storage.backend") and written to
// disk as nested TOML tables:
//
//	[storage]
//	backend = "sqlite"
package file
