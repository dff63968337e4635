package main

import "trackstash/cmd"

func main() {
	cmd.Execute()
}
