package main

import "aac2alac/cmd"

func main() {
	cmd.Execute()
}
