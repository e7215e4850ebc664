package main

import "github.com/karna-27/bank-lending-system/cmd"

func main() {
	cmd.Execute()
}
