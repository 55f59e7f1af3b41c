package main

import "github.com/hmelton/plaidbean/cmd"

func main() {
	cmd.Execute()
}
