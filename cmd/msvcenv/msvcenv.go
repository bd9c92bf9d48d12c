package main

import (
	"os"

	"github.com/poppolopoppo/msvcenv/internal/cmd"
)

/***************************************
 * Launch Command (program entry point)
 ***************************************/

func main() {
	os.Exit(cmd.Execute(os.Args[1:]))
}
