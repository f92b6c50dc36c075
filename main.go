package main

import "github.com/frahmantamala/bill-tracking/cmd"

func main() {
	cmd.Execute()
}
