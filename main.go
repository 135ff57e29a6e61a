package main

import "github.com/theirongolddev/cashburn/cmd"

func main() {
	cmd.Execute()
}
