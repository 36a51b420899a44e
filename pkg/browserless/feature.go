// File: pkg/browserless/feature.go
package browserless

// Feature names a remote endpoint family. It labels errors and loggers.
type Feature string

const (
	FeaturePDF         Feature = "pdf"
	FeatureScreenshot  Feature = "screenshot"
	FeatureContent     Feature = "content"
	FeatureScrape      Feature = "scrape"
	FeatureDownload    Feature = "download"
	FeatureFunction    Feature = "function"
	FeatureUnblock     Feature = "unblock"
	FeatureBQL         Feature = "bql"
	FeaturePerformance Feature = "performance"
	FeatureConfig      Feature = "config"
	FeatureMetrics     Feature = "metrics"
	FeatureSessions    Feature = "sessions"
	FeatureWebSocket   Feature = "websocket"
)

var featureVerbs = map[Feature]string{
	FeaturePDF:         "generate PDF",
	FeatureScreenshot:  "capture screenshot",
	FeatureContent:     "retrieve content",
	FeatureScrape:      "scrape content",
	FeatureDownload:    "download file",
	FeatureFunction:    "execute function",
	FeatureUnblock:     "unblock URL",
	FeatureBQL:         "execute BQL query",
	FeaturePerformance: "run performance audit",
	FeatureConfig:      "fetch config",
	FeatureMetrics:     "fetch metrics",
	FeatureSessions:    "fetch sessions",
	FeatureWebSocket:   "exchange websocket message",
}

func (f Feature) verb() string {
	if v, ok := featureVerbs[f]; ok {
		return v
	}
	return "call " + string(f)
}

// Remote endpoint paths, relative to the client base URL.
const (
	endpointPDF          = "pdf"
	endpointScreenshot   = "screenshot"
	endpointContent      = "content"
	endpointScrape       = "scrape"
	endpointDownload     = "download"
	endpointFunction     = "function"
	endpointUnblock      = "unblock"
	endpointBQL          = "chrome/bql"
	endpointPerformance  = "performance"
	endpointConfig       = "config"
	endpointMetrics      = "metrics"
	endpointMetricsTotal = "metrics/total"
	endpointSessions     = "sessions"
	endpointPuppeteer    = "puppeteer"
	endpointPlaywright   = "playwright"
)
