// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package metric

import "go.opentelemetry.io/otel/metric"

// HubMetric groups the instruments describing a hub.
//
// Instruments:
//   - hub.actors.count          (Int64ObservableGauge)
//   - hub.workers.blocked       (Int64ObservableGauge)
//   - hub.messages.processed    (Int64Counter)
//   - hub.deadletters.count     (Int64Counter)
type HubMetric struct {
	actorsCount       metric.Int64ObservableGauge
	blockedWorkers    metric.Int64ObservableGauge
	processedMessages metric.Int64Counter
	deadletters       metric.Int64Counter
}

// NewHubMetric creates the hub instruments using the provided Meter. It fails
// as soon as one instrument cannot be created.
func NewHubMetric(meter metric.Meter) (*HubMetric, error) {
	var instruments HubMetric
	var err error

	if instruments.actorsCount, err = meter.Int64ObservableGauge(
		"hub.actors.count",
		metric.WithDescription("Number of live addresses bound in the hub"),
	); err != nil {
		return nil, err
	}

	if instruments.blockedWorkers, err = meter.Int64ObservableGauge(
		"hub.workers.blocked",
		metric.WithDescription("Number of callbacks currently parked in a blocking primitive"),
	); err != nil {
		return nil, err
	}

	if instruments.processedMessages, err = meter.Int64Counter(
		"hub.messages.processed",
		metric.WithDescription("Total number of messages handed to react callbacks"),
	); err != nil {
		return nil, err
	}

	if instruments.deadletters, err = meter.Int64Counter(
		"hub.deadletters.count",
		metric.WithDescription("Total number of messages that could not be routed"),
	); err != nil {
		return nil, err
	}

	return &instruments, nil
}

// ActorsCount returns the gauge observed with the hub address table size.
func (x *HubMetric) ActorsCount() metric.Int64ObservableGauge {
	return x.actorsCount
}

// BlockedWorkers returns the gauge observed with the number of blocked callbacks.
func (x *HubMetric) BlockedWorkers() metric.Int64ObservableGauge {
	return x.blockedWorkers
}

// ProcessedMessages returns the processed messages counter.
func (x *HubMetric) ProcessedMessages() metric.Int64Counter {
	return x.processedMessages
}

// Deadletters returns the unroutable messages counter.
func (x *HubMetric) Deadletters() metric.Int64Counter {
	return x.deadletters
}
