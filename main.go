package main

import "github.com/username/tradejournal/cmd"

func main() {
	cmd.Execute()
}
