package main

import "github.com/mcoot/dominoes-go/internal/cli"

func main() {
	cli.Execute()
}
