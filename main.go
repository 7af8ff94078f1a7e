package main

import (
	"github.com/arraypress/edd-register-recount-tools/cmd"
)

func main() {
	cmd.Execute()
}
