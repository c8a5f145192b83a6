package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/alexisbeaulieu97/pixtheme/internal/compositor"
	"github.com/alexisbeaulieu97/pixtheme/internal/parser"
)

type renderOptions struct {
	q          queryFlags
	size       string
	out        string
	overlay    bool
	background string
	interp     string
	gapX       int
	gapWidth   int
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [theme]",
		Short: "Paint the rule for a request into an image file",
		Long: `Render resolves a paint request like lookup and draws the matching rule
onto a canvas of --size. The output format follows the --out extension:
.png, .bmp or .tif/.tiff.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts, args)
		},
	}

	opts.q.bind(cmd)
	cmd.Flags().StringVar(&opts.size, "size", "64x32", "Canvas size as WxH")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output image file")
	cmd.Flags().BoolVar(&opts.overlay, "overlay", false, "Draw the overlay image too")
	cmd.Flags().StringVar(&opts.background, "background", "", "Canvas color (hex or color name); transparent when empty")
	cmd.Flags().StringVar(&opts.interp, "interpolation", "", "Scaler: nearest, bilinear or catmullrom (defaults to the config)")
	cmd.Flags().IntVar(&opts.gapX, "gap-x", 0, "Gap offset along the gap side")
	cmd.Flags().IntVar(&opts.gapWidth, "gap-width", 0, "Gap width along the gap side")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runRender(cmd *cobra.Command, root *rootFlags, opts *renderOptions, args []string) error {
	size, err := parseSize(opts.size)
	if err != nil {
		return newCommandError("render", "reading --size", err, "Use WIDTHxHEIGHT, for example 120x40.")
	}
	encode, err := encoderFor(opts.out)
	if err != nil {
		return newCommandError("render", "choosing the output format", err, "Use a .png, .bmp or .tiff file name.")
	}
	q, err := opts.q.query()
	if err != nil {
		return newCommandError("render", "reading the request", err, "See 'pixtheme render --help' for accepted values.")
	}

	app, err := newAppContext(cmd, root)
	if err != nil {
		return err
	}

	interpName := opts.interp
	if interpName == "" {
		interpName = app.cfg.Interpolation
	}
	interp, ok := compositor.ParseInterpolator(interpName)
	if !ok {
		return newCommandError("render", "choosing the scaler", fmt.Errorf("unknown interpolation %q", interpName), "Use nearest, bilinear or catmullrom.")
	}

	th, err := app.mustLoadTheme(cmd, args)
	if err != nil {
		return err
	}
	defer th.Close()

	st, err := opts.q.selectStyle(th)
	if err != nil {
		return newCommandError("render", "selecting style", err, "Run 'pixtheme rules' to see the defined styles.")
	}

	canvas := image.NewNRGBA(image.Rectangle{Max: size})
	if opts.background != "" {
		colors, err := app.cfg.NamedColors()
		if err != nil {
			return err
		}
		bg, ok := parseCanvasColor(opts.background, colors)
		if !ok {
			return newCommandError("render", "reading --background", fmt.Errorf("unknown color %q", opts.background), "Use #rrggbb or a color name.")
		}
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}

	surface := compositor.NewImageSurface(canvas, interp)
	ctx := compositor.Context{GapX: opts.gapX, GapWidth: opts.gapWidth}
	if w := widgetFromPath(opts.q.widgetPath); w != nil {
		ctx.Widget = w
	}
	if !th.Paint(surface, canvas.Bounds(), st, q, opts.overlay, ctx) {
		return newCommandError("render", "matching a rule", fmt.Errorf("style %q has no rule for %s", st.Name, q.Function), "Run 'pixtheme lookup --explain' with the same flags.")
	}

	if err := writeImage(opts.out, canvas, encode); err != nil {
		return newCommandError("render", "writing the image", err, "Check that the output directory exists and is writable.")
	}

	app.log.WithFields(map[string]any{"out": opts.out, "style": st.Name, "function": q.Function.String()}).Info("rendered")
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", opts.out, size.X, size.Y)
	return nil
}

func parseSize(text string) (image.Point, error) {
	var w, h int
	if _, err := fmt.Sscanf(strings.ToLower(text), "%dx%d", &w, &h); err != nil {
		return image.Point{}, fmt.Errorf("invalid size %q", text)
	}
	if w <= 0 || h <= 0 {
		return image.Point{}, fmt.Errorf("size %q must be positive", text)
	}
	return image.Pt(w, h), nil
}

func parseCanvasColor(text string, overrides map[string]color.NRGBA) (color.NRGBA, bool) {
	if strings.HasPrefix(text, "#") {
		return parser.ParseHexColor(text)
	}
	return parser.NamedColors{Overrides: overrides}.Lookup(text)
}

type encodeFunc func(io.Writer, image.Image) error

func encoderFor(path string) (encodeFunc, error) {
	if path == "" {
		return nil, errors.New("--out is required")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }, nil
	default:
		return nil, fmt.Errorf("unsupported image extension %q", filepath.Ext(path))
	}
}

func writeImage(path string, img image.Image, encode encodeFunc) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return encode(f, img)
}
