package main

import "directory-bridge-server/internal/cli"

func main() {
	cli.Execute()
}
