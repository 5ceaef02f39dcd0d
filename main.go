package main

import "github.com/nlorusso/jql-agent/cmd"

func main() {
	cmd.Execute()
}
