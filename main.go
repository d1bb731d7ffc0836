package main

import (
	"os"

	"github.com/snowflake-ladder/snowflake/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
