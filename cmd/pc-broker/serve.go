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
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/lihungbin/PlanetaryComputer/catalog"
	"github.com/lihungbin/PlanetaryComputer/mosaic"
	"github.com/lihungbin/PlanetaryComputer/render"
	"github.com/lihungbin/PlanetaryComputer/util"
)

func getPortStr() string {
	if port, ok := os.LookupEnv("PORT"); ok {
		return ":" + port
	}
	return ":8080"
}

func createRouter(ctx util.LogContext) (*mux.Router, error) {
	router := mux.NewRouter()
	router.Use(metricsMiddleware)
	router.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("OK"))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/discover/{collection}", catalog.NewDiscoverHandler())
	router.Handle("/catalog/{collection}/{id}", catalog.NewMetadataHandler())
	router.Handle("/preview/{collection}/{id}.png", render.NewPreviewHandler())
	router.Handle("/mosaic/register", mosaic.NewRegisterHandler()).Methods("POST")
	router.Handle("/mosaic/{searchid}/tilejson.json", mosaic.NewTileJSONHandler())

	return router, nil
}

func serveAction(*cli.Context) {
	logContext := &(util.BasicLogContext{})

	portStr := getPortStr()

	if router, err := createRouter(logContext); err == nil {
		util.LogInfo(logContext, "Serving pc-broker on "+portStr)
		launchServerFunc(portStr, router)
	} else {
		util.LogSimpleErr(logContext, "Failed to create router: ", err)
	}
}

var launchServerFunc = launchServer

func launchServer(portStr string, router *mux.Router) {
	server := http.Server{
		Addr:    portStr,
		Handler: router,
	}

	log.Fatal(server.ListenAndServe())
}
