package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	imgproc "github.com/ironsheep/shilavakya/internal/imaging"
	"github.com/ironsheep/shilavakya/internal/logger"
	"github.com/ironsheep/shilavakya/internal/scriptorium"
)

type enhanceFlags struct {
	output      string
	params      imgproc.Params
	region      string
	strokeWidth int
	ink         string
	paper       string
	overlay     string
	opacity     float64
	locate      bool
}

func newEnhanceCmd(a *app) *cobra.Command {
	f := enhanceFlags{params: imgproc.DefaultParams()}

	cmd := &cobra.Command{
		Use:   "enhance <photo>",
		Short: "Write an edge-enhanced rubbing of a stone photo",
		Example: `  # Defaults: blur 5, thresholds 50/150
  shilavakya enhance stone.jpg -o rubbing.png

  # Heavier smoothing, only the inscribed panel, brown ink
  shilavakya enhance stone.jpg -o panel.png --blur 9 --region 120,80,900,640 --ink "#5b3a1e"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnhance(cmd, a, f, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "Output image path; the extension selects the format (default <photo>-rubbing.png)")
	flags.IntVar(&f.params.BlurSize, "blur", imgproc.DefaultBlurSize, "Gaussian kernel size (odd)")
	flags.IntVar(&f.params.LowThreshold, "low", imgproc.DefaultLowThreshold, "Weak-edge threshold (0-255)")
	flags.IntVar(&f.params.HighThreshold, "high", imgproc.DefaultHighThreshold, "Strong-edge threshold (0-255)")
	flags.StringVar(&f.region, "region", "", "Only enhance x1,y1,x2,y2")
	flags.IntVar(&f.strokeWidth, "stroke", 0, "Widen strokes by this many pixels")
	flags.StringVar(&f.ink, "ink", "", "Stroke color (#RRGGBB)")
	flags.StringVar(&f.paper, "paper", "", "Background color (#RRGGBB)")
	flags.StringVar(&f.overlay, "overlay", "", "Also write the strokes drawn over the photo to this path")
	flags.Float64Var(&f.opacity, "opacity", 0.8, "Overlay opacity (0-1)")
	flags.BoolVar(&f.locate, "locate", false, "Print regions that look like inscribed text")

	return cmd
}

func runEnhance(cmd *cobra.Command, a *app, f enhanceFlags, input string) error {
	svc, err := a.service()
	if err != nil {
		return err
	}

	raw, err := imgproc.ReadFile(input, a.cfg.MaxUploadBytes)
	if err != nil {
		return err
	}
	region, err := parseRegion(f.region)
	if err != nil {
		return err
	}

	req := scriptorium.EnhanceRequest{
		Image:       raw,
		Params:      f.params,
		Region:      region,
		StrokeWidth: f.strokeWidth,
		InkColor:    f.ink,
		PaperColor:  f.paper,
		LocateText:  f.locate,
	}
	if f.overlay != "" {
		req.OverlayOpacity = f.opacity
	}

	res, err := svc.Render(cmd.Context(), req)
	if err != nil {
		return err
	}

	output := f.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "-rubbing.png"
	}
	if err := imaging.Save(res.Rubbing, output); err != nil {
		return fmt.Errorf("failed to save %s: %w", output, err)
	}
	if res.Overlay != nil {
		if err := imaging.Save(res.Overlay, f.overlay); err != nil {
			return fmt.Errorf("failed to save %s: %w", f.overlay, err)
		}
	}

	logger.WithFields(logrus.Fields{
		"input":      input,
		"output":     output,
		"edge_count": res.EdgeCount,
	}).Info("rubbing written")
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d, %d edge pixels\n",
		output, res.Original.Rect.Dx(), res.Original.Rect.Dy(), res.EdgeCount)
	for _, tr := range res.TextRegions {
		r := tr.Region
		fmt.Fprintf(cmd.OutOrStdout(), "  text %d,%d,%d,%d (confidence %.3f)\n", r.X1, r.Y1, r.X2, r.Y2, tr.Confidence)
	}
	return nil
}

// parseRegion reads "x1,y1,x2,y2"; an empty string means the whole photo.
func parseRegion(s string) (*imgproc.Region, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var r imgproc.Region
	if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "%d,%d,%d,%d", &r.X1, &r.Y1, &r.X2, &r.Y2); err != nil {
		return nil, &imgproc.InvalidParameterError{Name: "region", Value: s, Reason: "want x1,y1,x2,y2"}
	}
	return &r, nil
}
