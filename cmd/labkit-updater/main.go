package main

import "github.com/oshokin/labkit/cmd/labkit-updater/cmd"

func main() {
	cmd.Execute()
}
