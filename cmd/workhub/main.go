package main

import "github.com/workhub-app/workhub/internal/cli"

func main() {
	cli.Execute()
}
