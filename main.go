package main

import "github.com/rnwolfe/hobbit/cmd"

func main() {
	cmd.Execute()
}
