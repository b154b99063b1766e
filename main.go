package main

import (
	"github.com/wanifuchi/seonavi/cmd"
)

func main() {
	cmd.Execute()
}
