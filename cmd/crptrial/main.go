package main

import "github.com/tomitschek/crptrial/internal/cli"

func main() {
	cli.Execute()
}
