package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestPoolCollector_DescribesEveryStat(t *testing.T) {
	c := newPoolCollector(nil)
	ch := make(chan *prometheus.Desc, len(poolStats))
	c.Describe(ch)
	close(ch)

	var names []string
	for d := range ch {
		names = append(names, d.String())
	}
	assert.Len(t, names, len(poolStats))
	assert.Contains(t, names[0], "storefront_db_acquired_conns")
}
