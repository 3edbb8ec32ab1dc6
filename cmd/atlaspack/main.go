// Command atlaspack packs every PNG/JPEG image in a directory into a
// single texture atlas, writing the baked image plus a JSON manifest
// describing where each source file landed.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"

	"imageatlas/atlas"
	"imageatlas/spritepacker"
)

const version = "0.1.0"

var imageGlobs = []string{"*.png", "*.jpg", "*.jpeg"}

func main() {
	inputDir := flag.String("input", "input", "directory of PNG/JPEG images to pack")
	outputDir := flag.String("output", "output", "directory to write atlas.png and atlas.json into")
	minDim := flag.Uint("min-dim", 16, "initial canvas width/height")
	maxDim := flag.Uint("max-dim", 4096, "maximum canvas width/height")
	sortBySize := flag.Bool("sort", true, "present larger images first, by area")
	trim := flag.Bool("trim", false, "crop transparent borders before packing")
	threshold := flag.Uint("threshold", 0, "alpha value at or below which a pixel counts as transparent, for -trim")
	flag.Parse()

	opts := packOptions{
		inputDir:   *inputDir,
		outputDir:  *outputDir,
		minDim:     uint16(*minDim),
		maxDim:     uint16(*maxDim),
		sortBySize: *sortBySize,
		trim:       *trim,
		threshold:  uint8(*threshold),
	}
	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintln(os.Stderr, "atlaspack:", err)
		os.Exit(1)
	}
}

type packOptions struct {
	inputDir, outputDir string
	minDim, maxDim      uint16
	sortBySize          bool
	trim                bool
	threshold           uint8
}

// trimmedImage is a source image after optional transparent-border
// cropping: pixels/bounds refer to the cropped region, sourceW/sourceH
// are the pre-crop dimensions, and offsetX/offsetY locate the crop
// within the original image.
type trimmedImage struct {
	pixels           *image.NRGBA
	sourceW, sourceH uint16
	offsetX, offsetY uint16
	trimmed          bool
}

func run(ctx context.Context, opts packOptions) error {
	var paths []string
	for _, pattern := range imageGlobs {
		matches, err := filepath.Glob(filepath.Join(opts.inputDir, pattern))
		if err != nil {
			return err
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PNG/JPEG files found in %s", opts.inputDir)
	}
	sort.Sort(natural.StringSlice(paths))

	decoded, err := decodeAll(ctx, paths)
	if err != nil {
		return err
	}

	images := make([]trimmedImage, len(paths))
	for i, img := range decoded {
		images[i] = prepareImage(img, opts.trim, opts.threshold)
	}

	order := make([]int, len(paths))
	for i := range order {
		order[i] = i
	}
	if opts.sortBySize {
		slices.SortStableFunc(order, func(a, b int) int {
			ra := atlas.NewRect(0, 0, uint16(images[a].pixels.Bounds().Dx()), uint16(images[a].pixels.Bounds().Dy()))
			rb := atlas.NewRect(0, 0, uint16(images[b].pixels.Bounds().Dx()), uint16(images[b].pixels.Bounds().Dy()))
			return atlas.SortByArea(ra, rb)
		})
	}

	a, err := atlas.New(len(paths), atlas.WithMinDimension(opts.minDim), atlas.WithMaxDimension(opts.maxDim))
	if err != nil {
		return err
	}
	defer a.Close()

	placements := make(map[int]atlas.Rect, len(paths))
	for _, i := range order {
		bounds := images[i].pixels.Bounds()
		w, h := uint16(bounds.Dx()), uint16(bounds.Dy())

		x, y, err := a.AddImage(atlas.FormatR8G8B8A8, images[i].pixels.Pix, w, h)
		if err != nil {
			return fmt.Errorf("place %s: %w", paths[i], err)
		}
		placements[i] = atlas.NewRect(x, y, w, h)
	}

	width, height := a.BakedSize()
	dst := make([]byte, atlas.CalculatePixelDataSize(atlas.FormatR8G8B8A8, uint16(width), uint16(height)))
	if err := a.Bake(atlas.FormatR8G8B8A8, dst); err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return err
	}

	atlasPath := filepath.Join(opts.outputDir, "atlas.png")
	if err := writePNG(atlasPath, dst, int(width), int(height)); err != nil {
		return err
	}

	manifest := spritepacker.NewManifest(version, filepath.Base(atlasPath), width, height)
	for i, p := range paths {
		r := placements[i]
		name := filepath.Base(p)
		if images[i].trimmed {
			manifest.AddTrimmed(name, r.X, r.Y, r.Width, r.Height,
				images[i].sourceW, images[i].sourceH, images[i].offsetX, images[i].offsetY)
		} else {
			manifest.Add(name, r.X, r.Y, r.Width, r.Height)
		}
	}
	if err := manifest.WriteFile(filepath.Join(opts.outputDir, "atlas.json")); err != nil {
		return err
	}

	fmt.Printf("packed %d images into %dx%d atlas at %s\n", len(paths), width, height, atlasPath)
	return nil
}

// prepareImage converts img to NRGBA and, if trim is set, crops it to its
// non-transparent bounding box (per getImageBBox).
func prepareImage(img image.Image, trim bool, threshold uint8) trimmedImage {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	sourceW, sourceH := uint16(bounds.Dx()), uint16(bounds.Dy())

	if !trim {
		return trimmedImage{pixels: nrgba, sourceW: sourceW, sourceH: sourceH}
	}

	bbox := getImageBBox(nrgba, threshold)
	if bbox == bounds {
		return trimmedImage{pixels: nrgba, sourceW: sourceW, sourceH: sourceH}
	}

	cropped := imaging.Crop(nrgba, bbox)
	return trimmedImage{
		pixels:  cropped,
		sourceW: sourceW,
		sourceH: sourceH,
		offsetX: uint16(bbox.Min.X - bounds.Min.X),
		offsetY: uint16(bbox.Min.Y - bounds.Min.Y),
		trimmed: true,
	}
}

// getImageBBox returns the smallest rectangle enclosing every pixel whose
// alpha exceeds threshold. Returns img's full bounds if every pixel is at
// or below threshold.
func getImageBBox(img *image.NRGBA, threshold uint8) image.Rectangle {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X, bounds.Min.Y
	found := false

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		i := img.PixOffset(bounds.Min.X, y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.Pix[i+3] > threshold {
				found = true
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
			i += 4
		}
	}

	if !found {
		return bounds
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// decodeAll decodes every path concurrently, bounded by GOMAXPROCS, and
// returns as soon as ctx is cancelled or the first decode fails.
func decodeAll(ctx context.Context, paths []string) ([]image.Image, error) {
	images := make([]image.Image, len(paths))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := runtime.GOMAXPROCS(0)
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	errs := make(chan error, 1)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				img, err := imaging.Open(paths[i])
				if err != nil {
					select {
					case errs <- fmt.Errorf("decode %s: %w", paths[i], err):
					default:
					}
					cancel()
					return
				}
				images[i] = img
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	select {
	case err := <-errs:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func writePNG(path string, rgba []byte, w, h int) error {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, rgba)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
