// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/desfixer/cmd/desfixer/cmd"
)

func main() {
	cmd.Execute()
}
