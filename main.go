package main

import "github.com/moyu-x/declutter/cmd"

func main() {
	cmd.Execute()
}
