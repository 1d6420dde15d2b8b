package main

import "github.com/fathomchat/fathom/cmd"

func main() {
	cmd.Execute()
}
