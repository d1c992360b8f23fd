// Package storekeeper holds build-level facts about the storekeeper module.
package storekeeper

// Version is the release version printed by "storekeeper version".
const Version = "0.1.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/storekeeper"
