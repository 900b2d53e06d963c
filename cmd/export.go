package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rnwolfe/hobbit/internal/export"
	"github.com/rnwolfe/hobbit/internal/store"
	"github.com/rnwolfe/hobbit/internal/ui"
)

var (
	exportEncrypt bool
	importForce   bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export habits and history to a JSON snapshot",
	Long: `Write the whole database — habits, sub-habits, and every check-in — to a
portable JSON file. With --encrypt the file is sealed with a passphrase
(age encryption); keep the passphrase, there's no recovery.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore habits and history from a snapshot",
	Long: `Replace the current database with a snapshot made by 'hobbit export'.
Encrypted snapshots prompt for their passphrase. This is a restore, not
a merge: existing habits and check-ins are wiped first.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().BoolVarP(&exportEncrypt, "encrypt", "e", false, "Encrypt the snapshot with a passphrase")
	importCmd.Flags().BoolVarP(&importForce, "force", "f", false, "Skip the confirmation prompt")
}

func runExport(_ *cobra.Command, args []string) error {
	path := fmt.Sprintf("hobbit-export-%s.json", time.Now().Format("20060102"))
	if exportEncrypt {
		path += ".age"
	}
	if len(args) == 1 {
		path = args[0]
	}

	var passphrase string
	if exportEncrypt {
		p1, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		p2, err := readPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if p1 != p2 {
			return fmt.Errorf("passphrases don't match")
		}
		if strings.TrimSpace(p1) == "" {
			return fmt.Errorf("passphrase can't be empty")
		}
		passphrase = p1
	}

	db, err := store.Open()
	if err != nil {
		return err
	}
	defer db.Close()

	snap, err := export.Collect(db.Conn())
	if err != nil {
		return err
	}
	if err := export.WriteFile(path, snap, passphrase); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Exported %d habits and %d check-ins to %s",
		len(snap.Habits), len(snap.Checkins), path))
	return nil
}

func runImport(_ *cobra.Command, args []string) error {
	path := args[0]

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var passphrase string
	if export.Encrypted(raw) {
		passphrase, err = readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
	}

	snap, err := export.ReadFile(path, passphrase)
	if err != nil {
		return err
	}

	if !importForce {
		ui.Warn("Importing replaces everything — current habits and check-ins are wiped.")
		fmt.Printf("Replace all current habits with the %d in this snapshot? [y/N] ",
			len(snap.Habits))
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			ui.Puts(ui.Muted.Render("  Kept the current data."))
			return nil
		}
	}

	db, err := store.Open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := export.Restore(db.Conn(), snap); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Imported %d habits and %d check-ins",
		len(snap.Habits), len(snap.Checkins)))
	return nil
}

func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(raw), nil
}
