package cli

import (
	"fmt"
	"strings"

	"rw-translator/internal/inidoc"
	"rw-translator/internal/interpolation"
	"rw-translator/internal/parser"

	"github.com/spf13/cobra"
)

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <file> <section> <key> <value>",
		Short: "Set one value, keeping the rest of the file untouched",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editFile(args[0], func(store *inidoc.Store) error {
				store.Set(args[1], args[2], args[3])
				return nil
			})
		},
	}
}

func unsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <file> <section> <key>",
		Short: "Remove one key, keeping the rest of the file untouched",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editFile(args[0], func(store *inidoc.Store) error {
				if !store.Delete(args[1], args[2]) {
					return fmt.Errorf("key %q not found in section [%s]", args[2], args[1])
				}
				return nil
			})
		},
	}
}

// editFile runs one load, edit, store cycle on path.
func editFile(path string, edit func(*inidoc.Store) error) error {
	store, doc, err := inidoc.Load(path)
	if err != nil {
		return err
	}
	if err := edit(store); err != nil {
		return err
	}
	return inidoc.Save(store, doc)
}

func maskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mask <text>",
		Short: "Show how template expressions are shielded before translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			payload := interpolation.Mask(args[0])
			fmt.Fprintf(out, "masked: %s\n", strings.ReplaceAll(payload.MaskedText, string(interpolation.Sentinel), "<*>"))
			for i, p := range payload.Placeholders {
				fmt.Fprintf(out, "%d: %s\n", i+1, p)
			}
			return nil
		},
	}
}

func languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List language codes accepted as translation suffixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, code := range parser.LanguageCodes() {
				fmt.Fprintf(out, "%s\t%s\n", code, parser.LanguageName(code))
			}
			return nil
		},
	}
}
