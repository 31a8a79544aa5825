package main

import "github.com/ByLCY/roster/cmd"

func main() {
	cmd.Execute()
}
