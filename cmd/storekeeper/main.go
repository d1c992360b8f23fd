// Command storekeeper tracks products in a local SQLite inventory.
package main

import "github.com/mesh-intelligence/storekeeper/internal/cli"

func main() {
	cli.Execute()
}
