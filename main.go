package main

import "TopLog/pkg/commands"

func main() {
	commands.Execute()
}
