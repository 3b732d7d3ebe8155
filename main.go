package main

import (
	"github.com/actionsmith/actionsmith/cmd"
)

var version = "0.0.1"

func main() {
	cmd.Execute(version)
}
