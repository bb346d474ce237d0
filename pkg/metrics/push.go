package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Pusher sends collectors to a Prometheus pushgateway at the end of a
// batch run. A zero URL disables pushing.
type Pusher struct {
	url string
	job string
}

func NewPusher(url, job string) *Pusher {
	if job == "" {
		job = "schedule_import"
	}
	return &Pusher{url: url, job: job}
}

func (p *Pusher) Enabled() bool {
	return p.url != ""
}

// Push replaces the job's metric group with the current collector values.
func (p *Pusher) Push(ctx context.Context, grouping map[string]string, collectors ...prometheus.Collector) error {
	if !p.Enabled() {
		return nil
	}
	pusher := push.New(p.url, p.job)
	for name, value := range grouping {
		pusher = pusher.Grouping(name, value)
	}
	for _, c := range collectors {
		pusher = pusher.Collector(c)
	}
	return pusher.PushContext(ctx)
}
