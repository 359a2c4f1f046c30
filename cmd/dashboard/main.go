package main

import "github.com/rpggio/pmdash/internal/cli"

func main() {
	cli.Execute()
}
