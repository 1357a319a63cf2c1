package main

import "github.com/Alohamoras/windows-image-builder-take-2/cmd"

func main() {
	cmd.Execute()
}
