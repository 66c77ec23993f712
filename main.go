package main

import (
	"os"

	"github.com/larik-22/howufeelin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
