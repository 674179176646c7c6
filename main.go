package main

import "github.com/webaudit/webaudit/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
