// kafkaos boots a single-node bureaucratic terminal session.
package main

import "github.com/kafkaos/kafkaos/internal/cli"

func main() {
	cli.Execute()
}
