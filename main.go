package main

import "github.com/mfirmanda/helpdesk-management/cmd"

func main() {
	cmd.Execute()
}
