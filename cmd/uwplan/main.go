package main

import (
	"github.com/alesfranek-maf/uwapi/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
