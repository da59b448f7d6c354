package main

import "github.com/nrad-K/livehouse-crawler/cmd"

func main() {
	cmd.Execute()
}
