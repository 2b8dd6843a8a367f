package main

import "github.com/rzclan/warbot/internal/cli"

func main() {
	cli.Execute()
}
