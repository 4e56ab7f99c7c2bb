package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PromoMetrics tracks banner exposure and offer redemption activity.
type PromoMetrics struct {
	BannerImpressionsTotal prometheus.CounterVec
	BannerClicksTotal      prometheus.CounterVec

	OfferClaimsTotal         prometheus.CounterVec
	OfferClaimsRejectedTotal prometheus.CounterVec
	OfferClaimDuration       prometheus.HistogramVec

	ActiveBannerListSize prometheus.Gauge
}

func NewPromoMetrics() *PromoMetrics {
	return &PromoMetrics{
		BannerImpressionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "banner_impressions_total",
				Help: "Banner impressions recorded by the public listing",
			},
			[]string{"shop_id"},
		),

		BannerClicksTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "banner_clicks_total",
				Help: "Banner clicks, counted regardless of activity state",
			},
			[]string{"shop_id"},
		),

		OfferClaimsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "offer_claims_total",
				Help: "Successful offer redemptions",
			},
			[]string{"shop_id"},
		),

		OfferClaimsRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "offer_claims_rejected_total",
				Help: "Offer redemptions rejected at the cap or outside the window",
			},
			[]string{"shop_id", "reason"},
		),

		OfferClaimDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "offer_claim_duration_seconds",
				Help:    "Time spent processing an offer claim",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"outcome"},
		),

		ActiveBannerListSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_banner_list_size",
				Help: "Number of banners in the last public listing response",
			},
		),
	}
}

func (m *PromoMetrics) RecordImpressions(shopIDs []string) {
	for _, id := range shopIDs {
		m.BannerImpressionsTotal.WithLabelValues(id).Inc()
	}
	m.ActiveBannerListSize.Set(float64(len(shopIDs)))
}

func (m *PromoMetrics) RecordClick(shopID string) {
	m.BannerClicksTotal.WithLabelValues(shopID).Inc()
}

func (m *PromoMetrics) RecordClaim(shopID string, durationSeconds float64) {
	m.OfferClaimsTotal.WithLabelValues(shopID).Inc()
	m.OfferClaimDuration.WithLabelValues("accepted").Observe(durationSeconds)
}

func (m *PromoMetrics) RecordClaimRejected(shopID, reason string, durationSeconds float64) {
	m.OfferClaimsRejectedTotal.WithLabelValues(shopID, reason).Inc()
	m.OfferClaimDuration.WithLabelValues("rejected").Observe(durationSeconds)
}
