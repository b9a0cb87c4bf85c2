package gokons

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// ShowConfirm presents a yes/no prompt and is the interactive
// ConfirmFunc wired by the CLI.
func ShowConfirm(title string) bool {
	var confirm bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Affirmative("Yes").
				Negative("No").
				Title(title).
				Value(&confirm),
		),
	)

	err := form.Run()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return false
	}

	return confirm
}
