// Package monitoring provides Prometheus metrics for the uncertainty
// service.
//
// Metrics cover the HTTP surface (request counts, latency histograms) and
// the engine (parse/calculation outcomes, failure counters labelled by
// error kind, calculation latency). Collectors register on a caller-supplied
// registry so tests can instantiate them in isolation.
//
// Example Usage:
//
//	reg := prometheus.NewRegistry()
//	metrics := monitoring.NewMetrics(reg)
//	router.Use(monitoring.Middleware(metrics))
//	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
package monitoring
