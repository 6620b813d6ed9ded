package main

import "ecobloom/internal/commands"

func main() {
	commands.Execute()
}
