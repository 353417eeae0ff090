package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"schemer/internal/application/commands"
)

var addEntityCmd = &cobra.Command{
	Use:   "add-entity",
	Short: "Add an entity",
	Long: `Add an entity to the diagram. Without --title it is named "Entity N".

Examples:
  schemer-cli add-entity --title Users --x 40 --y 40
  schemer-cli add-entity --title Orders --fields $'id:int [PK]\nuser_id:int [FK]'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		title, _ := cmd.Flags().GetString("title")
		fields, _ := cmd.Flags().GetString("fields")
		x, _ := cmd.Flags().GetFloat64("x")
		y, _ := cmd.Flags().GetFloat64("y")

		create := commands.NewCreateEntityCommand(GetRepo(), title, x, y)
		create.Fields = fields
		create.Width = cfg.Editor.EntityWidth
		result, err := create.Execute(ctx)
		if err != nil {
			return err
		}
		brand.Println(result.Message)
		return nil
	},
}

var addLinkCmd = &cobra.Command{
	Use:   "add-link <from> <to>",
	Short: "Connect two entities",
	Long: `Connect two entities with a numbered link.

Cardinalities are one, many or zero-one (default one -> many).

Examples:
  schemer-cli add-link Users Orders
  schemer-cli add-link 1 2 --from-card zero-one --to-card one`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		create := commands.NewCreateLinkCommand(GetRepo(), args[0], args[1])
		create.FromCardinality, _ = cmd.Flags().GetString("from-card")
		create.ToCardinality, _ = cmd.Flags().GetString("to-card")

		result, err := create.Execute(ctx)
		if err != nil {
			return err
		}
		brand.Println(result.Message)
		return nil
	},
}

var deleteLinkCmd = &cobra.Command{
	Use:   "delete-link <#num|id|label>",
	Short: "Delete a link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewDeleteLinkCommand(GetRepo(), args[0]).Execute(ctx)
		if err != nil {
			return err
		}
		brand.Println(result.Message)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <entity> <title>",
	Short: "Rename an entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewRenameCommand(GetRepo(), args[0], args[1]).Execute(ctx)
		if err != nil {
			return err
		}
		brand.Println(result.Message)
		return nil
	},
}

var fieldsCmd = &cobra.Command{
	Use:   "fields <entity>",
	Short: "Replace the fields of an entity",
	Long: `Replace every field of an entity. The field text is read from --file, or
from stdin, one "name:type [meta]" per line. Nothing changes if any line is
invalid.

Examples:
  printf 'id:int [PK]\nemail:text\n' | schemer-cli fields Users
  schemer-cli fields Users --file users.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		file, _ := cmd.Flags().GetString("file")

		var data []byte
		var err error
		if file != "" {
			data, err = os.ReadFile(file)
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("read fields: %w", err)
		}

		result, err := commands.NewSetFieldsCommand(GetRepo(), args[0], string(data)).Execute(ctx)
		if err != nil {
			return err
		}
		brand.Println(result.Message)
		return nil
	},
}

var cardinalityCmd = &cobra.Command{
	Use:   "cardinality <#num|id|label> <from> <to>",
	Short: "Set both end markers of a link",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewSetCardinalityCommand(GetRepo(), args[0], args[1], args[2]).Execute(ctx)
		if err != nil {
			return err
		}
		brand.Println(result.Message)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <entity> <x> <y>",
	Short: "Move an entity to world coordinates",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		x, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid x %q", args[1])
		}
		y, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid y %q", args[2])
		}
		result, err := commands.NewMoveCommand(GetRepo(), args[0], x, y).Execute(ctx)
		if err != nil {
			return err
		}
		brand.Println(result.Message)
		return nil
	},
}

func init() {
	addEntityCmd.Flags().String("title", "", "entity title")
	addEntityCmd.Flags().String("fields", "", "field text, one name:type [meta] per line")
	addEntityCmd.Flags().Float64("x", 0, "world x of the top-left corner")
	addEntityCmd.Flags().Float64("y", 0, "world y of the top-left corner")

	addLinkCmd.Flags().String("from-card", "", "cardinality at the source end (one, many, zero-one)")
	addLinkCmd.Flags().String("to-card", "", "cardinality at the target end (one, many, zero-one)")

	fieldsCmd.Flags().StringP("file", "f", "", "read field text from a file instead of stdin")

	rootCmd.AddCommand(addEntityCmd, addLinkCmd, deleteLinkCmd, renameCmd, fieldsCmd, cardinalityCmd, moveCmd)
}
