package main

import "github.com/chamlis/patchup/cmd/patchup/cmd"

func main() {
	cmd.Execute()
}
