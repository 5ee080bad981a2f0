// Package metrics exports renderer and diagram counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phanxgames/dispatchviz"
)

// Metrics holds the collectors registered for one viewer. Each instance owns
// its registry so tests and multiple viewers do not collide.
type Metrics struct {
	registry *prometheus.Registry

	framesTotal    prometheus.Counter
	drawCallsTotal prometheus.Counter
	commands       *prometheus.GaugeVec
	frameDuration  prometheus.Histogram

	diagramNodes   prometheus.Gauge
	diagramEdges   prometheus.Gauge
	diagramRegions prometheus.Gauge
	stepsTotal     prometheus.Counter
	treesTotal     prometheus.Counter

	lastSteps int
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatchviz_frames_total",
			Help: "Number of frames drawn.",
		}),
		drawCallsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatchviz_draw_calls_total",
			Help: "Number of draw calls submitted.",
		}),
		commands: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dispatchviz_render_commands",
			Help: "Render commands emitted in the last frame by type.",
		}, []string{"type"}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatchviz_frame_duration_seconds",
			Help:    "Time spent traversing and submitting one frame.",
			Buckets: []float64{.0005, .001, .002, .004, .008, .016, .033, .066},
		}),
		diagramNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatchviz_diagram_nodes",
			Help: "Graph nodes in the current diagram.",
		}),
		diagramEdges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatchviz_diagram_edges",
			Help: "Graph edges in the current diagram.",
		}),
		diagramRegions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatchviz_diagram_shadow_regions",
			Help: "Shadow tree regions in the current diagram.",
		}),
		stepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatchviz_steps_total",
			Help: "Number of dispatch steps shown.",
		}),
		treesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatchviz_trees_total",
			Help: "Number of trees drawn.",
		}),
	}
	m.registry.MustRegister(
		m.framesTotal,
		m.drawCallsTotal,
		m.commands,
		m.frameDuration,
		m.diagramNodes,
		m.diagramEdges,
		m.diagramRegions,
		m.stepsTotal,
		m.treesTotal,
	)
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFrame records one frame. Pass it to Scene.OnFrameStats.
func (m *Metrics) ObserveFrame(stats dispatchviz.FrameStats) {
	m.framesTotal.Inc()
	m.drawCallsTotal.Add(float64(stats.DrawCallCount))
	m.commands.WithLabelValues("mesh").Set(float64(stats.MeshCount))
	m.commands.WithLabelValues("text").Set(float64(stats.TextCount))
	m.frameDuration.Observe(stats.Total().Seconds())
}

// ObserveTree records a freshly built diagram.
func (m *Metrics) ObserveTree(stats dispatchviz.DiagramStats) {
	m.treesTotal.Inc()
	m.lastSteps = 0
	m.ObserveDiagram(stats)
}

// ObserveDiagram syncs the diagram gauges and counts steps shown since the
// previous call.
func (m *Metrics) ObserveDiagram(stats dispatchviz.DiagramStats) {
	m.diagramNodes.Set(float64(stats.Nodes))
	m.diagramEdges.Set(float64(stats.Edges))
	m.diagramRegions.Set(float64(stats.Regions))
	if stats.Steps > m.lastSteps {
		m.stepsTotal.Add(float64(stats.Steps - m.lastSteps))
	}
	m.lastSteps = stats.Steps
}
