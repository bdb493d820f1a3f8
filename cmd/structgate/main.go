package main

import "github.com/pkarpov/structgate/internal/cli"

func main() {
	cli.Execute()
}
