package main

import "livestream-sync/cmd"

func main() {
	cmd.Execute()
}
