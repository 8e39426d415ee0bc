package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/vcollage"
	"github.com/menta2k/vcollage/internal/config"
	"github.com/menta2k/vcollage/internal/utils"
	"github.com/menta2k/vcollage/pkg/compositor"
	"github.com/menta2k/vcollage/pkg/processing"
)

func main() {
	var in, out, previewOut, configPath, writeConfig string
	var width, border, quality int
	var color, resampler string
	var lossless, listPalette, verbose bool

	flag.StringVar(&in, "in", "", "comma separated image files, directories or URLs, top to bottom")
	flag.StringVar(&out, "out", "", "output file (jpg|png|webp); defaults to <output_dir>/collage.<format>")
	flag.StringVar(&previewOut, "preview", "", "also write the display thumbnail to this file")
	flag.StringVar(&configPath, "config", "", "config file (default ./config/config.yaml or ~/.config/vcollage/config.yaml)")
	flag.StringVar(&writeConfig, "write-config", "", "write the effective configuration to this file and exit")

	flag.IntVar(&width, "width", compositor.DefaultWidth, "collage width in pixels")
	flag.IntVar(&border, "border", compositor.DefaultBorderWidth, "border width in pixels, 0 for none")
	flag.StringVar(&color, "color", compositor.DefaultBorderColor.String(), "border color: "+paletteNames())
	flag.StringVar(&resampler, "resampler", compositor.DefaultResampler, "resampling filter: "+strings.Join(compositor.Resamplers(), "|"))

	flag.IntVar(&quality, "quality", 90, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP output lossless mode")

	flag.BoolVar(&listPalette, "palette", false, "print the border colors and exit")
	flag.BoolVar(&verbose, "v", false, "debug logging")

	flag.Parse()

	if listPalette {
		for _, c := range compositor.Palette() {
			fmt.Printf("%-8s %s\n", c.String(), c.Hex())
		}
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatal(err)
	}

	// flags given on the command line win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Collage.Width = width
		case "border":
			cfg.Collage.BorderWidth = border
		case "color":
			cfg.Collage.BorderColor = color
		case "resampler":
			cfg.Collage.Resampler = resampler
		case "quality":
			cfg.Output.Quality = quality
		case "lossless":
			cfg.Output.Lossless = lossless
		case "v":
			if verbose {
				cfg.Log.Level = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}
	if err := cfg.Log.SetupLogger(); err != nil {
		logrus.Fatal(err)
	}

	if writeConfig != "" {
		if err := cfg.SaveToFile(writeConfig); err != nil {
			logrus.Fatal(err)
		}
		logrus.WithField("path", writeConfig).Info("configuration written")
		return
	}

	if in == "" {
		logrus.Fatalf("usage: %s -in a.jpg,b.png,dir/ [-width 1280] [-border 10] [-color Black] [-out collage.jpg] [-preview preview.png]",
			filepath.Base(os.Args[0]))
	}

	sources, err := utils.ExpandSources(strings.Split(in, ","))
	if err != nil {
		logrus.Fatal(err)
	}
	if len(sources) == 0 {
		logrus.Fatalf("no images found in %s", in)
	}

	if out == "" {
		out = utils.GenerateOutputFilename(cfg.Output.OutputDir, "", cfg.Output.Format)
	}

	if err := run(cfg, sources, out, previewOut); err != nil {
		logrus.Fatal(err)
	}
}

func run(cfg *config.Config, sources []string, out, previewOut string) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	resizer, err := cfg.Resizer()
	if err != nil {
		return err
	}

	maker := vcollage.NewWithConfig(vcollage.Config{
		Resizer:       resizer,
		Limits:        cfg.Limits(),
		PreviewWidth:  cfg.Preview.MaxWidth,
		PreviewHeight: cfg.Preview.MaxHeight,
		SaveOptions:   cfg.SaveOptions(),
	})

	if err := maker.AddFiles(sources...); err != nil {
		return err
	}
	for i, label := range maker.Labels() {
		logrus.Debugf("%d: %s", i+1, label)
	}

	ctx := context.Background()
	if err := maker.Export(ctx, params, out); err != nil {
		return err
	}

	if previewOut != "" {
		frame, err := maker.Preview(ctx, params)
		if err != nil {
			return err
		}
		opts := cfg.SaveOptions()
		if err := processing.NewProcessor().SaveImage(frame.Thumb, previewOut, opts); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		logrus.WithField("path", previewOut).Info("preview saved")
	}

	logrus.WithFields(logrus.Fields{
		"images": maker.Len(),
		"width":  params.Width,
		"border": params.BorderWidth,
		"color":  params.BorderColor.String(),
	}).Infof("collage written to %s", out)
	return nil
}

func paletteNames() string {
	var names []string
	for _, c := range compositor.Palette() {
		names = append(names, c.String())
	}
	return strings.Join(names, "|")
}
