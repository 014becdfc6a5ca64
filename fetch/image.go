package fetch

import (
	"context"
	"fmt"
	"image"
	"math"

	// image decoders for preview assets
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/lihungbin/PlanetaryComputer/model"
	"github.com/lihungbin/PlanetaryComputer/util"
)

// FetchImage fetches a pre-rendered image asset and decodes it
func FetchImage(ctx context.Context, logContext util.LogContext, ref model.AssetRef) (image.Image, error) {
	body, err := fetchBody(ctx, logContext, ref.Href)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	decoded, _, err := image.Decode(body)
	if err != nil {
		return nil, util.LogSimpleErr(logContext, fmt.Sprintf("Failed to decode image asset %v.", ref.Href), err)
	}
	return decoded, nil
}

// ResizeToWidth scales an image to the target width, preserving its aspect
// ratio. Heights are rounded to the nearest pixel.
func ResizeToWidth(source image.Image, targetWidth int) image.Image {
	sourceBounds := source.Bounds()
	if targetWidth <= 0 || sourceBounds.Dx() == 0 {
		return source
	}
	targetHeight := int(math.Round(float64(targetWidth) * float64(sourceBounds.Dy()) / float64(sourceBounds.Dx())))
	if targetHeight < 1 {
		targetHeight = 1
	}

	target := image.NewNRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.CatmullRom.Scale(target, target.Bounds(), source, sourceBounds, xdraw.Over, nil)
	return target
}
