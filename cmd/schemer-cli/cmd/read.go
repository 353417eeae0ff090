package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"schemer/internal/application/commands"
	"schemer/internal/domain"
)

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List all entities",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		nodes, err := commands.NewListEntitiesCommand(GetRepo()).Execute(ctx)
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			fmt.Println("No entities")
			return nil
		}
		for _, n := range nodes {
			printEntity(n)
		}
		return nil
	},
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List all links",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		links, err := commands.NewListLinksCommand(GetRepo()).Execute(ctx)
		if err != nil {
			return err
		}
		if len(links) == 0 {
			fmt.Println("No links")
			return nil
		}
		for _, l := range links {
			printLink(l)
		}
		return nil
	},
}

var refsCmd = &cobra.Command{
	Use:   "refs <entity>",
	Short: "List every entity an entity reaches",
	Long: `List the transitive references of an entity, sorted by title.

Each row is prefixed with the number of the link that starts the route.

Examples:
  schemer-cli refs Users
  schemer-cli refs 3 --locale en`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		locale, _ := cmd.Flags().GetString("locale")
		if locale == "" {
			locale = cfg.Editor.Locale
		}
		result, err := commands.NewReferencesCommand(GetRepo(), args[0], locale).Execute(ctx)
		if err != nil {
			return err
		}

		brand.Println(result.Entity.Title)
		if len(result.References) == 0 {
			subtle.Println("  no references")
			return nil
		}
		for _, r := range result.References {
			fmt.Printf("  %s\n", r)
		}
		return nil
	},
}

var pathCmd = &cobra.Command{
	Use:   "path <from> <to>",
	Short: "Show a shortest chain of links between two entities",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		result, err := commands.NewPathCommand(GetRepo(), args[0], args[1]).Execute(ctx)
		if err != nil {
			return err
		}
		if len(result.Links) == 0 {
			warn.Printf("No route from %s to %s\n", result.From.Title, result.To.Title)
			return nil
		}
		for _, l := range result.Links {
			printLink(l)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search entities by title or field name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		results, err := commands.NewSearchCommand(GetRepo(), args[0]).Execute(ctx)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}
		for _, r := range results {
			fmt.Printf("[%s] %s %s\n", r.MatchedOn, info.Sprintf("%d", r.Entity.ID), r.Entity.Title)
			if r.MatchedOn != "title" {
				subtle.Printf("      %s\n", r.MatchedText)
			}
		}
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <label>",
	Short: "Resolve a link selection the way the editor would",
	Long: `Resolve a link selection message against the stored diagram and print
the link it would highlight. With --json the argument is a raw message such as
{"type":"select-link","from":"Users","to":"Orders"}.

Examples:
  schemer-cli select "Users -> Orders"
  schemer-cli select --json '{"type":"clear-link-selection"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		raw, _ := cmd.Flags().GetBool("json")

		sel := commands.NewSelectByLabelCommand(GetRepo(), args[0])
		if raw {
			var err error
			if sel, err = commands.NewSelectCommand(GetRepo(), []byte(args[0])); err != nil {
				return err
			}
		}
		result, err := sel.Execute(ctx)
		if err != nil {
			return err
		}
		switch {
		case !result.Recognized:
			warn.Println("Message not recognized")
		case len(result.Links) == 0:
			fmt.Println("Selection cleared")
		default:
			for _, l := range result.Links {
				printLink(l)
			}
		}
		return nil
	},
}

func printEntity(n domain.Node) {
	fmt.Printf("%s %s %s\n",
		info.Sprintf("%3d", n.ID),
		brand.Sprint(n.Title),
		subtle.Sprintf("(%.0f, %.0f)", n.X, n.Y))
	for _, f := range n.Fields {
		fmt.Printf("      %s\n", f.Display())
	}
}

func printLink(l commands.LinkSummary) {
	fmt.Printf("%s %s %s\n",
		info.Sprintf("#%-3d", l.Num),
		l.Label,
		subtle.Sprintf("(%s:%s) %s", l.FromCardinality, l.ToCardinality, l.ID))
}

func init() {
	refsCmd.Flags().String("locale", "", "collation locale for titles (default from config)")
	selectCmd.Flags().Bool("json", false, "treat the argument as a raw selection message")

	rootCmd.AddCommand(entitiesCmd, linksCmd, refsCmd, pathCmd, searchCmd, selectCmd)
}
