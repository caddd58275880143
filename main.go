package main

import "github.com/Vrilya/wow-addon-updater/cmd"

func main() {
	cmd.Execute()
}
