package main

import "github.com/jackrejister/form-craft-nexus/cmd"

func main() {
	cmd.Execute()
}
