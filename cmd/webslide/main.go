package main

import "github.com/amterp/webslide/internal/cli"

func main() {
	cli.Run()
}
