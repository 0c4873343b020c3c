package main

import "github.com/edisdb/edis/cmd"

func main() {
	cmd.Execute()
}
