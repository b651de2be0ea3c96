package main

import "github.com/oshokin/labkit/cmd/labkit-provisioner/cmd"

func main() {
	cmd.Execute()
}
