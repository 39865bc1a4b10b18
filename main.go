package main

import "github.com/ZacxDev/nolan-sites/cmd"

func main() {
	cmd.Execute()
}
