package main

import (
	"github.com/simdex/simdex/cmd"
	_ "go.uber.org/automaxprocs"
)

func main() {
	cmd.Execute()
}
