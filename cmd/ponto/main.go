package main

import "github.com/saturnino-fabrica-de-software/ponto/internal/cli"

func main() {
	cli.Execute()
}
