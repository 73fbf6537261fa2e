package main

import (
	"github.com/mofml/ffpgen/internal/interfaces/cli"
)

func main() {
	cli.Execute()
}
