package main

import "itsictl/cmd"

func main() {
	cmd.Execute()
}
