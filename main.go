package main

import "github.com/timvw/pane-carousel/cmd"

func main() {
	cmd.Execute()
}
