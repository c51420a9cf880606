package main

import (
	"os"

	"github.com/adminconsole/admin-console/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
