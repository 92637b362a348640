package main

import "github.com/devbridge/workbench-gateway/cmd"

func main() {
	cmd.Execute()
}
