package main

import "github.com/DrSkyle/campuslab/cmd/campuslab/commands"

func main() {
	commands.Execute()
}
