package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved diagrams, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			saved := a.saves.History()
			if len(saved) == 0 {
				fmt.Println("No saved diagrams. Press S in the editor to save one.")
				return nil
			}
			green := color.New(color.FgGreen)
			faint := color.New(color.Faint)
			for _, s := range saved {
				line := fmt.Sprintf("%s  %-32s %3d elements  ", shortID(s.ID), s.Name, len(s.Data.Elements))
				if s.ID == a.saves.ActiveID() {
					green.Printf("* %s", line)
				} else {
					fmt.Printf("  %s", line)
				}
				faint.Println(s.LastModified.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <id|name>",
		Short: "Export a saved diagram as PNG or text",
		Long: `Export a saved diagram to a file.

The format follows the output extension: .png renders an image, .txt
draws the diagram with box-drawing characters.

Examples:
  sketchflow export "Login flow" -o login.png
  sketchflow export 3f2a9c1e -o login.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			saved, ok := a.saves.Find(args[0])
			if !ok {
				return fmt.Errorf("no saved diagram %q", args[0])
			}
			if output == "" {
				output = saved.Name + ".png"
			}
			if !filepath.IsAbs(output) {
				if wd, err := os.Getwd(); err == nil {
					output = filepath.Join(wd, output)
				}
			}
			path, err := exportFile(output, saved.Data.Elements)
			if err != nil {
				return err
			}
			fmt.Printf("Exported '%s' to %s\n", saved.Name, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.png or .txt)")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a saved diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			saved, ok := a.saves.Find(args[0])
			if !ok {
				return fmt.Errorf("no saved diagram %q", args[0])
			}
			if err := a.saves.DeleteFromHistory(cmd.Context(), saved.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted '%s'\n", saved.Name)
			return nil
		},
	}
}

func renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id|name> <new name>",
		Short: "Rename a saved diagram",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			saved, ok := a.saves.Find(args[0])
			if !ok {
				return fmt.Errorf("no saved diagram %q", args[0])
			}
			if err := a.saves.Rename(cmd.Context(), saved.ID, args[1]); err != nil {
				return err
			}
			fmt.Printf("Renamed '%s' to '%s'\n", saved.Name, args[1])
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
