package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nibzard/tasklist/internal/ui"
)

func (a *app) shellCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if !ui.IsTTY(os.Stdin) || !ui.IsTTY(os.Stdout) {
		return errors.New("shell requires an interactive terminal")
	}

	store, err := a.file.Load()
	if err != nil {
		return err
	}
	a.logger.Debug("starting shell", "tasks", store.Len())

	if err := ui.RunShell(ctx, store, a.file, a.styles); err != nil {
		return err
	}
	fmt.Println(a.styles.Info.Render("Exiting the application."))
	return nil
}
