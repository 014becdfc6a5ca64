package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/venicegeo/geojson-go/geojson"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/lihungbin/PlanetaryComputer/archive"
	"github.com/lihungbin/PlanetaryComputer/catalog"
	"github.com/lihungbin/PlanetaryComputer/fetch"
	"github.com/lihungbin/PlanetaryComputer/model"
	"github.com/lihungbin/PlanetaryComputer/mosaic"
	"github.com/lihungbin/PlanetaryComputer/render"
	"github.com/lihungbin/PlanetaryComputer/sign"
	"github.com/lihungbin/PlanetaryComputer/util"
)

const version = "1.0.0"

func versionAction(*cli.Context) {
	fmt.Println(version)
}

func searchAction(c *cli.Context) error {
	collectionID := c.String("collection")
	if collectionID == "" {
		return cli.NewExitError("a collection id is required", 1)
	}

	options := catalog.SearchOptions{
		Collections: []string{collectionID},
		Datetime:    c.String("datetime"),
		Limit:       c.Int("limit"),
	}
	if bboxString := c.String("bbox"); bboxString != "" {
		bbox, err := geojson.NewBoundingBox(bboxString)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("bad bbox: %v", err), 1)
		}
		options.Bbox = bbox
	}

	catalogContext := &catalog.Context{BaseStacURL: util.GetStacAPIURL(), SubscriptionKey: util.GetSubscriptionKey()}
	items, err := catalog.Search(context.Background(), catalogContext, options).Collect()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	featureCreators := make([]model.GeoJSONFeatureCreator, len(items))
	for i, item := range items {
		featureCreators[i] = item
	}
	featureCollection, err := model.MultiItemResult{FeatureCreators: featureCreators}.GeoJSONFeatureCollection()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println(featureCollection.String())
	return nil
}

func mosaicAction(c *cli.Context) error {
	collectionID := c.String("collection")
	if collectionID == "" {
		return cli.NewExitError("a collection id is required", 1)
	}

	var filter interface{}
	if filterString := c.String("filter"); filterString != "" {
		if err := json.Unmarshal([]byte(filterString), &filter); err != nil {
			return cli.NewExitError(fmt.Sprintf("bad filter expression: %v", err), 1)
		}
	}

	mosaicContext := &mosaic.Context{BaseMosaicURL: util.GetMosaicAPIURL(), SubscriptionKey: util.GetSubscriptionKey()}
	registration, err := mosaic.Register(context.Background(), mosaicContext, collectionID, filter)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	tileJSON, err := registration.TileJSON(context.Background(), mosaicContext, nil)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Printf("searchid: %s\n", registration.SearchID)
	fmt.Printf("tiles:    %s\n", strings.Join(tileJSON.Tiles, " "))
	return nil
}

func previewAction(c *cli.Context) error {
	collectionID, itemID := c.String("collection"), c.String("item")
	if collectionID == "" || itemID == "" {
		return cli.NewExitError("a collection id and item id are required", 1)
	}

	key := util.GetSubscriptionKey()
	catalogContext := &catalog.Context{BaseStacURL: util.GetStacAPIURL(), SubscriptionKey: key}
	signer := sign.NewSigner(&sign.Context{BaseSasURL: util.GetSasAPIURL(), SubscriptionKey: key})

	item, err := catalog.GetItem(context.Background(), catalogContext, collectionID, itemID)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	ref, err := sign.Resolve(*item, c.String("asset"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if ref, err = signer.Sign(context.Background(), ref); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	decoded, err := fetch.FetchImage(context.Background(), catalogContext, ref)
	if err != nil {
		// not a pre-rendered asset; fall back to a windowed raster read
		window, rasterErr := fetch.ReadRasterWindow(context.Background(), catalogContext, ref, nil, []int{1, 2, 3})
		if rasterErr != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		if decoded, rasterErr = render.ToImage(window); rasterErr != nil {
			return cli.NewExitError(rasterErr.Error(), 1)
		}
	}

	out, err := os.Create(c.String("out"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer out.Close()
	if err := png.Encode(out, fetch.ResizeToWidth(decoded, c.Int("width"))); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println("wrote " + c.String("out"))
	return nil
}

func archiveAction(c *cli.Context) error {
	collectionID := c.String("collection")
	if collectionID == "" {
		return cli.NewExitError("a collection id is required", 1)
	}

	archiveContext := &archive.Context{BaseStacURL: util.GetStacAPIURL(), SubscriptionKey: util.GetSubscriptionKey()}
	extracted, err := archive.Download(context.Background(), archiveContext, collectionID, c.String("dest"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Printf("extracted %d files under %s\n", len(extracted), c.String("dest"))
	return nil
}
