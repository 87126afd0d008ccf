package main

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/census-map/internal/density"
	"github.com/sells-group/census-map/internal/insight"
	"github.com/sells-group/census-map/internal/mapview"
	"github.com/sells-group/census-map/internal/model"
	"github.com/sells-group/census-map/internal/region"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a profile across districts",
	Long:  "Fetches district densities for one or every attribute of a YAML profile, prints the insight and optionally writes the stylized SVG map.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("profile", "", "path to a YAML profile (required)")
	analyzeCmd.Flags().String("attribute", model.DefaultAttribute().Key, "attribute key to visualize")
	analyzeCmd.Flags().Bool("all", false, "analyze every attribute")
	analyzeCmd.Flags().String("svg", "", "write the stylized map to this path; with --all the attribute key is appended")
	analyzeCmd.Flags().Int("concurrency", 3, "max concurrent fetches with --all")
	analyzeCmd.Flags().Bool("json", false, "print results as JSON")
	_ = analyzeCmd.MarkFlagRequired("profile")
	rootCmd.AddCommand(analyzeCmd)
}

// analysis is the outcome for one attribute.
type analysis struct {
	Attribute model.Attribute    `json:"attribute"`
	Result    density.Result     `json:"result"`
	Densities map[string]float64 `json:"densities"`
	Insight   insight.Insight    `json:"insight"`
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("analyze"); err != nil {
		return err
	}

	profilePath, _ := cmd.Flags().GetString("profile")
	attrKey, _ := cmd.Flags().GetString("attribute")
	all, _ := cmd.Flags().GetBool("all")
	svgPath, _ := cmd.Flags().GetString("svg")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	asJSON, _ := cmd.Flags().GetBool("json")

	profile, err := loadProfile(profilePath)
	if err != nil {
		return err
	}

	attrs := model.AllAttributes()
	if !all {
		attr, ok := model.LookupAttribute(attrKey)
		if !ok {
			return eris.Errorf("analyze: unknown attribute %q", attrKey)
		}
		attrs = []model.Attribute{attr}
	}

	e, err := newEngine(cfg)
	if err != nil {
		return err
	}

	results, err := analyzeAll(ctx, e, profile, attrs, concurrency)
	if err != nil {
		return err
	}

	if svgPath != "" {
		for _, a := range results {
			path := svgPath
			if all {
				path = svgPathFor(svgPath, a.Attribute.Key)
			}
			if err := writeSVG(e, a, path); err != nil {
				return err
			}
			zap.L().Info("wrote map", zap.String("attribute", a.Attribute.Key), zap.String("path", path))
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	formatAnalyses(out, e.Catalog, results)
	return nil
}

// analyzeAll fetches every attribute with at most concurrency in flight.
// Results keep the order of attrs.
func analyzeAll(ctx context.Context, e *engine, profile model.Profile, attrs []model.Attribute, concurrency int) ([]analysis, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]analysis, len(attrs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, attr := range attrs {
		g.Go(func() error {
			res := e.Source.FetchDensities(gctx, profile, attr)
			if err := gctx.Err(); err != nil {
				return eris.Wrapf(err, "analyze: %s", attr.Key)
			}
			results[i] = analysis{
				Attribute: attr,
				Result:    res,
				Densities: e.Distributor.Distribute(res.Scores, e.Catalog),
				Insight:   insight.Derive(profile, attr, res.Scores, e.Catalog.ParentIDs()),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadProfile(path string) (model.Profile, error) {
	var p model.Profile
	data, err := os.ReadFile(path)
	if err != nil {
		return p, eris.Wrap(err, "analyze: read profile")
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, eris.Wrap(err, "analyze: parse profile")
	}
	return p, nil
}

// svgPathFor turns "out/map.svg" into "out/map-maritalStatus.svg".
func svgPathFor(base, key string) string {
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".svg"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + "-" + key + ext
}

func writeSVG(e *engine, a analysis, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "analyze: create svg")
	}
	defer f.Close() //nolint:errcheck

	if err := mapview.RenderSVG(f, e.Catalog, a.Densities, e.Mapper, mapview.Identity); err != nil {
		return err
	}
	return eris.Wrap(f.Sync(), "analyze: write svg")
}

func formatAnalyses(w io.Writer, cat *region.Catalog, results []analysis) {
	for _, a := range results {
		source := string(a.Result.Origin)
		if a.Result.Reason != "" {
			source += " (" + string(a.Result.Reason) + ")"
		}
		fmt.Fprintf(w, "%-18s %s\n", a.Attribute.Label+":", a.Insight.Sentence)
		fmt.Fprintf(w, "%-18s densest: %s\n", "", cat.ParentName(a.Insight.RegionID))
		fmt.Fprintf(w, "%-18s source: %s, top: %s\n", "", source, topDistricts(a.Result.Scores, 3))
	}
}

// topDistricts lists the n highest-density district codes, ties in input
// order.
func topDistricts(scores []model.DensityScore, n int) string {
	sorted := slices.Clone(scores)
	slices.SortStableFunc(sorted, func(a, b model.DensityScore) int {
		return cmp.Compare(b.Density, a.Density)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	parts := make([]string, len(sorted))
	for i, s := range sorted {
		parts[i] = fmt.Sprintf("%s=%g", s.RegionID, s.Density)
	}
	return strings.Join(parts, " ")
}
