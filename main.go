package main

import (
	"os"

	"github.com/klemjul/chatrelay/cmd"
	"github.com/klemjul/chatrelay/internal/app"
)

func main() {
	app := app.NewDefaultApp()
	if err := cmd.RootCommand(app).Execute(); err != nil {
		os.Exit(1)
	}
}
