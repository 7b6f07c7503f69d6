package main

import "github.com/naka-gawa/issue-tenure/cmd"

func main() {
	cmd.Execute()
}
