package main

import "github.com/oshokin/labkit/cmd/labkit-packager/cmd"

func main() {
	cmd.Execute()
}
