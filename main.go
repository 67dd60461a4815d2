package main

import "s3bridge/cmd"

func main() {
	cmd.Execute()
}
