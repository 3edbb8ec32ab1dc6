// Command atlasunpack reverses atlaspack: given a manifest produced by it,
// slice the baked atlas image back into its original per-file images.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"imageatlas/spritepacker"
)

func main() {
	manifestPath := flag.String("manifest", "output/atlas.json", "manifest written by atlaspack")
	outputDir := flag.String("output", "unpacked", "directory to write extracted images into")
	flag.Parse()

	if err := run(*manifestPath, *outputDir); err != nil {
		fmt.Fprintln(os.Stderr, "atlasunpack:", err)
		os.Exit(1)
	}
}

func run(manifestPath, outputDir string) error {
	manifest, err := spritepacker.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	atlasPath := filepath.Join(filepath.Dir(manifestPath), manifest.Atlas)
	atlasFile, err := os.Open(atlasPath)
	if err != nil {
		return fmt.Errorf("open atlas image: %w", err)
	}
	defer atlasFile.Close()

	atlasImg, err := imaging.Decode(atlasFile)
	if err != nil {
		return fmt.Errorf("decode atlas image: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for name, sprite := range manifest.Sprites {
		sub := image.NewNRGBA(image.Rect(0, 0, int(sprite.Region.W), int(sprite.Region.H)))
		src := image.Pt(int(sprite.Region.X), int(sprite.Region.Y))
		draw.Draw(sub, sub.Bounds(), atlasImg, src, draw.Src)

		out := sub
		if sprite.Trimmed {
			out = untrim(sub, sprite)
		}

		outPath := filepath.Join(outputDir, name)
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("create output subdirectory: %w", err)
		}
		if err := writePNG(outPath, out); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	fmt.Printf("unpacked %d images into %s\n", len(manifest.Sprites), outputDir)
	return nil
}

// untrim pastes a trimmed sprite's cropped pixels back into a
// transparent canvas of its original source size, at the offset recorded
// in sprite.SourceRect, undoing the border crop atlaspack -trim applied.
func untrim(cropped *image.NRGBA, sprite spritepacker.SpriteInfo) *image.NRGBA {
	full := imaging.New(int(sprite.SourceSize.W), int(sprite.SourceSize.H), image.Transparent)
	dstRect := image.Rect(
		int(sprite.SourceRect.X), int(sprite.SourceRect.Y),
		int(sprite.SourceRect.X)+cropped.Bounds().Dx(), int(sprite.SourceRect.Y)+cropped.Bounds().Dy(),
	)
	draw.Draw(full, dstRect, cropped, image.Point{}, draw.Src)
	return full
}

func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
