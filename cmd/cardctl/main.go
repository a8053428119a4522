package main

import (
	"github.com/zhuravskayyar/cardastica-server/internal/cli"
)

func main() {
	cli.Execute()
}
