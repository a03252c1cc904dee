package main

import "github.com/ValentinKolb/dynoKV/cmd"

func main() {
	cmd.Execute()
}
