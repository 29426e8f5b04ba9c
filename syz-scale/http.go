// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/google/fuzzscale/pkg/log"
	"github.com/google/fuzzscale/pkg/stat"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, handler func(http.ResponseWriter, *http.Request)) {
		mux.Handle(pattern, handlers.CompressHandler(http.HandlerFunc(handler)))
	}
	handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}).ServeHTTP)
	handle("/stats", httpStats)
	handle("/log", httpLog)
	// Browsers like to request this, without special handler this goes to / handler.
	handle("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {})
	handle("/", httpStats)
	return mux
}

func serveHTTP(addr string) {
	log.Logf(0, "serving http on http://%v", addr)
	go func() {
		err := http.ListenAndServe(addr, newHTTPHandler())
		if err != nil {
			log.Fatalf("failed to listen on %v: %v", addr, err)
		}
	}()
}

func httpStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, s := range stat.Collect(stat.All) {
		fmt.Fprintf(tw, "%v\t%v\t%v\n", s.Name, s.Value, s.Desc)
	}
	tw.Flush()
}

func httpLog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, log.CachedLogOutput())
}
