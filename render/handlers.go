package render

import (
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/lihungbin/PlanetaryComputer/catalog"
	"github.com/lihungbin/PlanetaryComputer/fetch"
	"github.com/lihungbin/PlanetaryComputer/model"
	"github.com/lihungbin/PlanetaryComputer/sign"
	"github.com/lihungbin/PlanetaryComputer/util"
)

const defaultPreviewWidth = 512

// PreviewHandler is a handler for /preview/{collection}/{id}.png. It runs
// the whole pipeline for one item: catalog lookup, asset resolution and
// signing, fetch, and a static PNG render, resized to the requested width.
type PreviewHandler struct {
	Catalog *catalog.Context
	Signer  *sign.Signer
}

// NewPreviewHandler creates a new handler using configuration from
// environment variables
func NewPreviewHandler() *PreviewHandler {
	key := util.GetSubscriptionKey()
	return &PreviewHandler{
		Catalog: &catalog.Context{BaseStacURL: util.GetStacAPIURL(), SubscriptionKey: key},
		Signer:  sign.NewSigner(&sign.Context{BaseSasURL: util.GetSasAPIURL(), SubscriptionKey: key}),
	}
}

func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	collectionID, itemID := vars["collection"], vars["id"]

	width := defaultPreviewWidth
	if widthString := r.FormValue("width"); widthString != "" {
		parsed, err := strconv.Atoi(widthString)
		if err != nil || parsed < 1 || parsed > 4096 {
			util.HTTPError(r, w, h.Catalog, fmt.Sprintf("The width value of %v is invalid", widthString), http.StatusBadRequest)
			return
		}
		width = parsed
	}
	assetRole := r.FormValue("asset")
	if assetRole == "" {
		assetRole = "rendered_preview"
	}

	item, err := catalog.GetItem(r.Context(), h.Catalog, collectionID, itemID)
	if err != nil {
		status := http.StatusBadGateway
		if httpErr, ok := err.(util.HTTPErr); ok && httpErr.Status == http.StatusNotFound {
			status = http.StatusNotFound
		} else if util.IsClientErr(err) {
			status = http.StatusBadRequest
		}
		util.HTTPError(r, w, h.Catalog, fmt.Sprintf("Error fetching item: %v", err), status)
		return
	}

	ref, err := sign.Resolve(*item, assetRole)
	if err != nil {
		util.HTTPError(r, w, h.Catalog, err.Error(), http.StatusBadRequest)
		return
	}
	if ref, err = h.Signer.Sign(r.Context(), ref); err != nil {
		util.HTTPError(r, w, h.Catalog, fmt.Sprintf("Error signing asset: %v", err), http.StatusBadGateway)
		return
	}

	img, err := h.renderAsset(r, ref)
	if err != nil {
		util.HTTPError(r, w, h.Catalog, fmt.Sprintf("Error rendering preview: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, fetch.ResizeToWidth(img, width)); err != nil {
		util.LogSimpleErr(h.Catalog, "Failed to encode preview PNG.", err)
	}
}

func (h *PreviewHandler) renderAsset(r *http.Request, ref model.AssetRef) (image.Image, error) {
	mediaType := strings.SplitN(ref.MediaType, ";", 2)[0]
	if mediaType == "image/png" || mediaType == "image/jpeg" {
		return fetch.FetchImage(r.Context(), h.Catalog, ref)
	}

	var bounds *fetch.Bounds
	if bboxString := r.FormValue("bbox"); bboxString != "" {
		bbox, err := geojson.NewBoundingBox(bboxString)
		if err != nil || len(bbox) < 4 {
			return nil, fmt.Errorf("the bbox value of %v is invalid", bboxString)
		}
		bounds = &fetch.Bounds{MinX: bbox[0], MinY: bbox[1], MaxX: bbox[2], MaxY: bbox[3]}
	}

	window, err := fetch.ReadRasterWindow(r.Context(), h.Catalog, ref, bounds, []int{1, 2, 3})
	if err != nil {
		// single-band rasters are reread as grayscale
		if window, err = fetch.ReadRasterWindow(r.Context(), h.Catalog, ref, bounds, []int{1}); err != nil {
			return nil, err
		}
	}
	if window.Empty() {
		return nil, fmt.Errorf("requested bounds do not intersect asset %v", ref.Href)
	}
	return ToImage(window)
}
