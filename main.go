package main

import (
	"github.com/thushan/ladder/internal/cli"
)

func main() {
	cli.Main()
}
