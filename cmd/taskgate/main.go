package main

import "github.com/sourabhrustagi/taskgate/internal/cli"

func main() {
	cli.Execute()
}
