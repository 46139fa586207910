package main

import (
	_ "time/tzdata"

	"github.com/pfrederiksen/vanier-courses/internal/cli"
)

func main() {
	cli.Execute()
}
