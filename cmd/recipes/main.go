package main

import "github.com/deppfellow/recipe-catalog/cmd/recipes/commands"

func main() {
	commands.Execute()
}
