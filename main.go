package main

import "github.com/theirongolddev/blossom/cmd"

func main() {
	cmd.Execute()
}
