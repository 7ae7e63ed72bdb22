package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	ProductsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "casri_products_created_total",
		Help: "Products recorded",
	})

	FinancialLogsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "casri_financial_logs_created_total",
		Help: "Financial logs recorded",
	})

	LiabilitiesSettled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casri_liabilities_settled_total",
			Help: "Liabilities moved out of pending",
		},
		[]string{"status"},
	)
)

func InitMetrics(reg prometheus.Registerer) {
	reg.MustRegister(HttpRequestsTotal, HttpRequestDuration, ProductsCreated, FinancialLogsCreated, LiabilitiesSettled)
}

func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "undefined"
		}

		HttpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HttpRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
	}
}

// MetricsHandler serves gatherer to clients whose IP is in allow. Entries
// are addresses or CIDRs; an empty list admits loopback only.
func MetricsHandler(gatherer prometheus.Gatherer, allow []string) gin.HandlerFunc {
	nets := parseAllow(allow)
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		ip := net.ParseIP(c.ClientIP())
		if !allowed(nets, ip) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func parseAllow(allow []string) []*net.IPNet {
	if len(allow) == 0 {
		allow = []string{"127.0.0.1", "::1"}
	}
	var nets []*net.IPNet
	for _, item := range allow {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !strings.Contains(item, "/") {
			if ip := net.ParseIP(item); ip != nil && ip.To4() != nil {
				item += "/32"
			} else {
				item += "/128"
			}
		}
		if _, n, err := net.ParseCIDR(item); err == nil {
			nets = append(nets, n)
		}
	}
	return nets
}

func allowed(nets []*net.IPNet, ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
