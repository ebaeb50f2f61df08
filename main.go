package main

import "github.com/surafelx/portfolio26/cli"

func main() {
	cli.Execute()
}
