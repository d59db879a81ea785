package main

import "sa-fashion-be/internal/cli"

func main() {
	cli.Execute()
}
