package main

import (
	"os"

	"github.com/DishDash-Admin/DishDash-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
