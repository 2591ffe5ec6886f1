package main

import "codelens/cmd/cli/command"

func main() {
	command.Execute()
}
