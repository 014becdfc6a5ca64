// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var commands = cli.Commands{
	cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Launch the pc-broker webserver",
		Action:  serveAction,
	},
	cli.Command{
		Name:    "search",
		Usage:   "Search a catalog collection and print the results as GeoJSON",
		Action:  searchAction,
		Flags: []cli.Flag{
			cli.StringFlag{Name: "collection, c", Usage: "collection id (required)"},
			cli.StringFlag{Name: "bbox", Usage: "bounding box as x1,y1,x2,y2"},
			cli.StringFlag{Name: "datetime", Usage: "instant, date, or start/end interval"},
			cli.IntFlag{Name: "limit", Usage: "cap on returned items", Value: 100},
		},
	},
	cli.Command{
		Name:    "mosaic",
		Usage:   "Register a mosaic search and print its tile-URL template",
		Action:  mosaicAction,
		Flags: []cli.Flag{
			cli.StringFlag{Name: "collection, c", Usage: "collection id (required)"},
			cli.StringFlag{Name: "filter", Usage: "filter expression as CQL2 JSON"},
		},
	},
	cli.Command{
		Name:    "preview",
		Usage:   "Render an item's asset to a local PNG",
		Action:  previewAction,
		Flags: []cli.Flag{
			cli.StringFlag{Name: "collection, c", Usage: "collection id (required)"},
			cli.StringFlag{Name: "item, i", Usage: "item id (required)"},
			cli.StringFlag{Name: "asset, a", Usage: "asset role", Value: "rendered_preview"},
			cli.StringFlag{Name: "out, o", Usage: "output file", Value: "preview.png"},
			cli.IntFlag{Name: "width, w", Usage: "output width in pixels", Value: 512},
		},
	},
	cli.Command{
		Name:    "archive",
		Usage:   "Download and extract a whole collection's assets",
		Action:  archiveAction,
		Flags: []cli.Flag{
			cli.StringFlag{Name: "collection, c", Usage: "collection id (required)"},
			cli.StringFlag{Name: "dest, d", Usage: "destination directory", Value: "."},
		},
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version number of the broker CLI",
		Action:  versionAction,
	},
}

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "pc-broker"
	app.Usage = "Query a hosted geospatial catalog and render its assets"
	app.Commands = commands
	return
}
