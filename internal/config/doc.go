// Package config loads renametar settings from a YAML file.
//
// A configuration file is optional. It is read from the path given by the
// --config flag ([LoadFile]) or the RENAMETAR_CONFIG environment variable
// ([Load]). Values in the file are merged over [Default]; command-line flags
// are applied on top by the caller.
//
// ${VAR} references in path fields are expanded from the environment after
// loading.
package config
