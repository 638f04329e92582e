package main

import (
	"github.com/0xPolygon/polygon-devpool/command/root"
)

func main() {
	root.NewRootCommand().Execute()
}
