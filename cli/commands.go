package main

import (
	"context"
	"fmt"

	"github.com/arvld/gokons"
	"github.com/arvld/gokons/config"
	"github.com/arvld/gokons/logger"
	"github.com/arvld/gokons/styles"
	"github.com/charmbracelet/huh/spinner"
	"github.com/urfave/cli/v3"
)

// setup resolves the config and logger for one invocation and opens
// the card.
func setup(cmd *cli.Command) (*gokons.Card, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if card := cmd.String("card"); card != "" {
		cfg.CardPath = card
	}

	logPath := cmd.String("log")
	if logPath == "" {
		logPath = cfg.LogPath
	}
	if logPath == "" {
		resolved, err := logger.LogPath()
		if err != nil {
			return nil, err
		}
		logPath = resolved
	}

	lg := logger.New()
	lg.Init(logPath)

	card := gokons.NewCard(cfg, lg)
	if !card.Mounted() {
		return nil, fmt.Errorf("SD card not found at %s", cfg.CardPath)
	}
	return card, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls", "l"},
		Usage:   "list non-empty banks and their kits",
		Flags: append(globalFlags(),
			&cli.BoolFlag{
				Name:    "detailed",
				Aliases: []string{"d"},
				Usage:   "show individual kit numbers instead of ranges",
			},
		),
		Action: listAction,
	}
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	card, err := setup(cmd)
	if err != nil {
		return err
	}

	banks, err := card.Banks()
	if err != nil {
		return err
	}
	if len(banks) == 0 {
		fmt.Println(styles.INFO.Render("No banks with kits found."))
		return nil
	}

	for _, bank := range banks {
		label := fmt.Sprintf("Bank %s:", bank.ID)
		if bank.Source {
			label = fmt.Sprintf("Bank %s (source):", bank.ID)
		}

		kits := gokons.FormatKitRanges(bank.Kits)
		if cmd.Bool("detailed") {
			kits = fmt.Sprint(bank.Kits)
		}

		fmt.Println(
			styles.BANK.Render(label),
			fmt.Sprintf("%d kits", len(bank.Kits)),
			styles.INFO.Render(gokons.FormatSize(bank.Bytes)),
			styles.RANGE.Render(fmt.Sprintf("(%s)", kits)),
		)
	}
	return nil
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Aliases:   []string{"i"},
		Usage:     "show the decoded parameters of one kit",
		ArgsUsage: "BANK:KIT",
		Flags:     globalFlags(),
		Action:    inspectAction,
	}
}

func inspectAction(ctx context.Context, cmd *cli.Command) error {
	bankID, kitNum, err := config.ParseKitSpec(cmd.Args().First())
	if err != nil {
		return err
	}

	card, err := setup(cmd)
	if err != nil {
		return err
	}

	report, err := card.Inspect(bankID, kitNum)
	if err != nil {
		return err
	}

	fmt.Println(styles.TITLE.Render(fmt.Sprintf("Kit %s:%02d", report.BankID, report.KitNum)),
		styles.INFO.Render(fmt.Sprintf("sub-format %d, header %d bytes, %d bytes total",
			report.SubFormat, report.HeaderSize, report.TotalSize)))

	for _, vr := range report.Voices {
		fmt.Println(
			styles.BANK.Render(fmt.Sprintf("Voice %d", vr.Index+1)),
			styles.INFO.Render(fmt.Sprintf("(%s, %d bytes)", vr.Kind, vr.Size)),
			vr.Describe(),
		)
	}

	for _, warning := range report.Warnings {
		fmt.Println(styles.WARNING.Render("warning: " + warning))
	}
	return nil
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "delete a bank (clean a source bank with --force)",
		ArgsUsage: "BANK",
		Flags: append(globalFlags(),
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "allow cleaning source banks",
			},
		),
		Action: deleteAction,
	}
}

func deleteAction(ctx context.Context, cmd *cli.Command) error {
	bankID, err := config.NormalizeBankID(cmd.Args().First())
	if err != nil {
		return err
	}

	card, err := setup(cmd)
	if err != nil {
		return err
	}

	result, err := card.DeleteBank(bankID, gokons.ShowConfirm, cmd.Bool("force"))
	if err != nil {
		return err
	}

	if result.Cleaned {
		fmt.Println(styles.SUCCESS.Render(
			fmt.Sprintf("Cleaned bank %s: removed %d stray kits", result.BankID, result.Removed)))
	} else {
		fmt.Println(styles.SUCCESS.Render(
			fmt.Sprintf("Deleted bank %s (%d kits)", result.BankID, result.Removed)))
	}
	return nil
}

func randomizeCommand() *cli.Command {
	return &cli.Command{
		Name:    "randomize",
		Aliases: []string{"rnd"},
		Usage:   "generate random kits by mixing source-bank voices",
		Flags: append(generateFlags(),
			&cli.IntFlag{
				Name:    "n",
				Usage:   "number of kits to generate",
				Value:   32,
				Aliases: []string{"count"},
			},
		),
		Action: randomizeAction,
	}
}

func randomizeAction(ctx context.Context, cmd *cli.Command) error {
	bankID, err := config.NormalizeBankID(cmd.String("bank"))
	if err != nil {
		return err
	}

	card, err := setup(cmd)
	if err != nil {
		return err
	}

	opts := gokons.RandomizeOptions{
		OutputBank: bankID,
		Count:      int(cmd.Int("n")),
		Seed:       cmd.Int("seed"),
		Force:      cmd.Bool("force"),
	}

	var written []int
	err = spinner.New().
		Title(fmt.Sprintf("generating %d kits into bank %s...", opts.Count, bankID)).
		ActionWithErr(func(ctx context.Context) error {
			var genErr error
			written, genErr = card.Randomize(opts)
			return genErr
		}).
		Run()
	if err != nil {
		return err
	}

	fmt.Println(styles.SUCCESS.Render(fmt.Sprintf("Wrote %d kits to bank %s (%s)",
		len(written), bankID, gokons.FormatKitRanges(written))))
	return nil
}

func varyCommand() *cli.Command {
	return &cli.Command{
		Name:  "vary",
		Usage: "generate variations of one kit by mutating voices",
		Flags: append(generateFlags(),
			&cli.StringFlag{
				Name:     "source",
				Usage:    "source kit as BANK:KIT (e.g. 01:05)",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "n",
				Usage:   "number of variations to generate",
				Value:   32,
				Aliases: []string{"count"},
			},
			&cli.IntFlag{
				Name:    "mutations",
				Aliases: []string{"m"},
				Usage:   "voices to mutate per variation (1-4)",
				Value:   2,
			},
		),
		Action: varyAction,
	}
}

func varyAction(ctx context.Context, cmd *cli.Command) error {
	bankID, err := config.NormalizeBankID(cmd.String("bank"))
	if err != nil {
		return err
	}
	sourceBank, sourceKit, err := config.ParseKitSpec(cmd.String("source"))
	if err != nil {
		return err
	}

	card, err := setup(cmd)
	if err != nil {
		return err
	}

	opts := gokons.VaryOptions{
		SourceBank: sourceBank,
		SourceKit:  sourceKit,
		OutputBank: bankID,
		Count:      int(cmd.Int("n")),
		Mutations:  int(cmd.Int("mutations")),
		Seed:       cmd.Int("seed"),
		Force:      cmd.Bool("force"),
	}

	var written []int
	err = spinner.New().
		Title(fmt.Sprintf("varying %s:%02d into bank %s...", sourceBank, sourceKit, bankID)).
		ActionWithErr(func(ctx context.Context) error {
			var genErr error
			written, genErr = card.Vary(opts)
			return genErr
		}).
		Run()
	if err != nil {
		return err
	}

	fmt.Println(styles.SUCCESS.Render(fmt.Sprintf("Wrote %d variations to bank %s (%s)",
		len(written), bankID, gokons.FormatKitRanges(written))))
	return nil
}

func generateFlags() []cli.Flag {
	return append(globalFlags(),
		&cli.StringFlag{
			Name:     "bank",
			Aliases:  []string{"b"},
			Usage:    "destination bank (0-63, excluding source banks)",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "random seed for reproducible output",
		},
		&cli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "overwrite a non-empty destination bank",
		},
	)
}
