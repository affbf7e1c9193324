package main

import "gabinete-digital/cmd"

func main() {
	cmd.Execute()
}
