package main

import "github.com/saleslens/saleslens/cmd"

func main() {
	cmd.Execute()
}
