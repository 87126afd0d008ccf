package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/census-map/internal/boundary"
)

var boundariesCmd = &cobra.Command{
	Use:   "boundaries",
	Short: "Prepare tertiary planning unit boundary datasets",
}

var boundariesConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a TPU shapefile to GeoJSON",
	Long:  "Reads a polygon shapefile and writes a GeoJSON FeatureCollection whose features carry the TPU code in " + boundary.PropTPUID + ".",
	RunE: func(cmd *cobra.Command, _ []string) error {
		shpPath, _ := cmd.Flags().GetString("shp")
		outPath, _ := cmd.Flags().GetString("out")
		codeField, _ := cmd.Flags().GetString("code-field")

		f, err := os.Create(outPath)
		if err != nil {
			return eris.Wrap(err, "boundaries convert: create output")
		}
		defer f.Close() //nolint:errcheck

		n, err := boundary.ConvertShapefile(shpPath, codeField, f)
		if err != nil {
			return err
		}

		zap.L().Info("boundaries converted",
			zap.String("shp", shpPath),
			zap.String("out", outPath),
			zap.Int("features", n),
		)
		return nil
	},
}

func init() {
	boundariesConvertCmd.Flags().String("shp", "", "input shapefile (required)")
	boundariesConvertCmd.Flags().String("out", "", "output GeoJSON path (required)")
	boundariesConvertCmd.Flags().String("code-field", boundary.PropTPUID, "attribute field holding the TPU code")
	_ = boundariesConvertCmd.MarkFlagRequired("shp")
	_ = boundariesConvertCmd.MarkFlagRequired("out")

	boundariesCmd.AddCommand(boundariesConvertCmd)
	rootCmd.AddCommand(boundariesCmd)
}
