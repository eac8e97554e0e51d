// Package metrics exposes Prometheus counters for the sheet and image upstreams.
//
// Metrics are served at /metrics in Prometheus text format:
//   - sheet_reads_total{sheet, result}: spreadsheet reads (result: ok, error)
//   - image_fetches_total{result}: image proxy outcomes (result: ok, fallback, failed)
//   - image_bytes_served_total: image bytes written to clients
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultFallback = "fallback"
	ResultFailed   = "failed"
)

var (
	SheetReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_reads_total",
			Help: "Spreadsheet reads by sheet and result",
		},
		[]string{"sheet", "result"},
	)

	ImageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_fetches_total",
			Help: "Image proxy requests by outcome",
		},
		[]string{"result"},
	)

	ImageBytesServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_bytes_served_total",
			Help: "Image bytes written to clients",
		},
	)
)

// RecordSheetRead counts one spreadsheet read.
func RecordSheetRead(sheet string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	SheetReads.WithLabelValues(sheet, result).Inc()
}

// RecordImageFetch counts one proxied image and the bytes it produced.
func RecordImageFetch(result string, bytes int) {
	ImageFetches.WithLabelValues(result).Inc()
	if bytes > 0 {
		ImageBytesServed.Add(float64(bytes))
	}
}
