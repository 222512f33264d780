package main

import "github.com/tayloree/dinecli/cmd"

func main() {
	cmd.Execute()
}
