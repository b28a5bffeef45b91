package main

import "labshare_dao/cmd"

func main() {
	cmd.Execute()
}
