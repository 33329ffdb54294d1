package main

import "github.com/jobverify/jobverify/cmd"

func main() {
	cmd.Execute()
}
