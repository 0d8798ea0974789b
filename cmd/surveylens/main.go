package main

import "github.com/KaramelBytes/surveylens/cmd"

func main() {
	cmd.Execute()
}
