package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/matheus3301/linktrack/internal/app"
	"github.com/matheus3301/linktrack/internal/tui"
)

func main() {
	workspaceFlag := flag.String("workspace", "", "workspace name (overrides config default)")
	flag.Parse()

	err := app.Run(context.Background(), app.Params{Workspace: *workspaceFlag, Quiet: true}, func(svc *app.Services) error {
		return tui.NewApp(svc).Run()
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
