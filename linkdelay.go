package netsim

//
// Link queuing-delay estimator: a moving-window average of how long
// packets dequeued from each side's buffer spent waiting there, recomputed
// every bufferDelayPeriodMS and held constant in between. Grounded in
// shape on the teacher's linkfwdfull.go periodic queue accounting, using
// github.com/montanaflynn/stats.Mean for the averaging.
//

import "github.com/montanaflynn/stats"

// bufferDelayPeriodMS is how often the estimator recomputes (spec.md
// §4.1, BUFFER_DELAY_PERIOD_MS constant in spec.md §6).
const bufferDelayPeriodMS = 2000

// maybeRecomputeDelayEstimate recomputes estimateMS for each side once a
// full bufferDelayPeriodMS has elapsed since the last recomputation, then
// resets the per-period sample accumulators. Between period boundaries the
// previous estimate is held constant, per spec.md §4.1.
func (l *Link) maybeRecomputeDelayEstimate(intervalMS, nowMS int64) {
	l.lastPeriodMS += intervalMS
	if l.lastPeriodMS < bufferDelayPeriodMS {
		return
	}
	l.lastPeriodMS = 0

	for side := 0; side < 2; side++ {
		if len(l.samplesMS[side]) == 0 {
			l.estimateMS[side] = 0
			continue
		}
		floats := make([]float64, len(l.samplesMS[side]))
		for i, v := range l.samplesMS[side] {
			floats[i] = float64(v)
		}
		mean, err := stats.Mean(floats)
		if err != nil {
			mean = 0
		}
		l.estimateMS[side] = int64(mean)
		l.samplesMS[side] = nil
	}
}
