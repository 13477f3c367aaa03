package main

import (
	"fmt"

	"github.com/jrmunchkin/defi-cube-yield-farm/cmd"
)

var (
	version string
	commit  string
)

func main() {
	cmd.Execute(fmt.Sprintf("%s-%s", version, commit))
}
