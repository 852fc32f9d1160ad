package main

import "portal-migrate/cmd"

func main() {
	cmd.Execute()
}
