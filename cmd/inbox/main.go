package main

import "github.com/MrSnakeDoc/inbox/internal/cli"

func main() {
	cli.Execute()
}
