package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"schemer/internal/adapters/raster"
	"schemer/internal/adapters/viewer"
	"schemer/internal/application/commands"
	"schemer/internal/geometry"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the diagram to a PNG",
	Long: `Render the stored diagram the way the editor draws it.

Without --scale the camera fits the whole diagram.

Examples:
  schemer-cli render -o scheme.png
  schemer-cli render -o orders.png --select "Users -> Orders" --select "#2"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out, _ := cmd.Flags().GetString("output")
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		scale, _ := cmd.Flags().GetFloat64("scale")
		selected, _ := cmd.Flags().GetStringArray("select")
		noGrid, _ := cmd.Flags().GetBool("no-grid")
		open, _ := cmd.Flags().GetBool("open")

		surface, err := raster.New(width, height)
		if err != nil {
			return err
		}
		render := commands.NewRenderCommand(GetRepo(), surface)
		render.Select = selected
		render.Locale = cfg.Editor.Locale
		render.Grid = !noGrid
		if scale > 0 {
			cam := geometry.Camera{Scale: scale}
			render.Camera = &cam
		}

		if _, err := render.Execute(ctx); err != nil {
			return err
		}
		if err := surface.SavePNG(out); err != nil {
			return err
		}
		brand.Printf("Rendered %dx%d to %s\n", width, height, out)
		if open {
			return viewer.New().Open(out)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringP("output", "o", "scheme.png", "PNG file to write")
	renderCmd.Flags().Int("width", 1200, "image width in pixels")
	renderCmd.Flags().Int("height", 800, "image height in pixels")
	renderCmd.Flags().Float64("scale", 0, "fixed zoom (default fits the diagram)")
	renderCmd.Flags().StringArray("select", nil, "link to highlight (repeatable)")
	renderCmd.Flags().Bool("no-grid", false, "omit the dot grid")
	renderCmd.Flags().Bool("open", false, "open the image in the default viewer")

	rootCmd.AddCommand(renderCmd)
}
