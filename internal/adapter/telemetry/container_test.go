package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func TestNewContainer_WithoutExporters(t *testing.T) {
	g := NewWithT(t)
	ctx := context.Background()

	container, err := NewContainer(ctx, Config{
		ServiceName:    "authapi",
		ServiceVersion: "test",
		Environment:    "test",
	}, otelzap.New(zap.NewNop()))

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(container.MetricsServer).To(BeNil())
	g.Expect(container.NewTelemetryProbe()).ToNot(BeNil())

	container.AppMetrics.RecordAuthOperation(ctx, "login", "success")

	rr := httptest.NewRecorder()
	promhttp.HandlerFor(container.PrometheusRegistry, promhttp.HandlerOpts{}).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	g.Expect(rr.Body.String()).To(ContainSubstring("auth_operations_total"))

	g.Expect(container.Shutdown(ctx)).To(Succeed())
}
