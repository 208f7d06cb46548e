package main

import "github.com/BiatuAutMiahn/wimboot/cmd/wimboot/cmd"

func main() {
	cmd.Execute()
}
