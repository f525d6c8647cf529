package main

import "github.com/OpenTraceLab/OpenTraceBOM/cmd/ibom/cmd"

func main() {
	cmd.Execute()
}
