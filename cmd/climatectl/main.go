// Command climatectl projects climate metrics, prints milestone series, and
// exports reports without running the service.
package main

import "github.com/couchcryptid/climate-projection-service/internal/cli"

func main() {
	cli.Execute()
}
