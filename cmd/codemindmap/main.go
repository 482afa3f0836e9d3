package main

import "codemindmap/cmd/codemindmap/cmd"

func main() {
	cmd.Execute()
}
