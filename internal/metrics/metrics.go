package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 两条管线的运行计数（/metrics 暴露，运营看板用）
var (
	// SyncTotal 单艺人同步结果计数，label result=success/failed
	SyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artistsync_sync_total",
		Help: "Artist sync outcomes by result.",
	}, []string{"result"})

	// DraftsIngested 入队草稿计数，label source=导入渠道
	DraftsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artistsync_drafts_ingested_total",
		Help: "Event drafts enqueued by ingestion source.",
	}, []string{"source"})

	// EventsApproved 审核通过落库的活动计数
	EventsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artistsync_events_approved_total",
		Help: "Event drafts approved into events.",
	})
)
