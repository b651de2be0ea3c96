package main

import "github.com/oshokin/labkit/cmd/labkit-processor/cmd"

func main() {
	cmd.Execute()
}
