package main

import "metasecure-core/cmd/metasecure-cli/cmd"

func main() {
	cmd.Execute()
}
