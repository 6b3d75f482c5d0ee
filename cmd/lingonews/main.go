package main

import (
	"os"

	"horse.fit/lingonews/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
