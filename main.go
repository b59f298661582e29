package main

import "github.com/itsmostafa/mdindex/cmd"

func main() {
	cmd.Execute()
}
