package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// AssetMetrics counts object store traffic generated by record saves.
type AssetMetrics struct {
	uploads  *prometheus.CounterVec
	removals *prometheus.CounterVec
	bytes    *prometheus.CounterVec
}

func NewAssetMetrics(reg prometheus.Registerer) *AssetMetrics {
	if reg == nil {
		return &AssetMetrics{}
	}
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "siteadmin_asset_uploads_total",
		Help: "Asset uploads by folder and result.",
	}, []string{"folder", "result"})
	removals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "siteadmin_asset_removals_total",
		Help: "Best-effort asset removals by folder and result.",
	}, []string{"folder", "result"})
	bytes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "siteadmin_asset_upload_bytes_total",
		Help: "Bytes written to the object store by folder.",
	}, []string{"folder"})
	reg.MustRegister(uploads, removals, bytes)
	return &AssetMetrics{uploads: uploads, removals: removals, bytes: bytes}
}

func (m *AssetMetrics) Upload(folder, result string, size int64) {
	if m == nil || m.uploads == nil {
		return
	}
	folder = normalizeLabel(folder)
	m.uploads.WithLabelValues(folder, result).Inc()
	if result == ResultOK && size > 0 {
		m.bytes.WithLabelValues(folder).Add(float64(size))
	}
}

func (m *AssetMetrics) Removal(folder, result string) {
	if m == nil || m.removals == nil {
		return
	}
	m.removals.WithLabelValues(normalizeLabel(folder), result).Inc()
}
