package main

import "github.com/inesalsa/politicool/cmd"

func main() {
	cmd.Execute()
}
