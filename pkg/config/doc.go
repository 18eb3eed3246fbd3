// Package config loads proxymock configuration: the host config file and
// the mock API definition it points at.
//
// Two files are involved. The host config (proxymock.yaml) configures the
// proxy itself and names the API definition file. The API definition
// (api.json by default) declares the base URL, the mocked dataset file,
// and the ordered list of actions. Both parse from YAML or JSON,
// dispatched on file extension.
//
// The package also provides a poll-based watcher used to pick up external
// edits to the definition file.
package config
