package usecase

import (
	"context"

	"SkinPulse/internal/domain/models"
	drepo "SkinPulse/internal/domain/repository"
	mid "SkinPulse/internal/middleware"
)

// StreamCollector consumes a live tick feed and hands each tick to the
// processor through the ingest pipeline. Only wired when the optional
// websocket stream is configured.
type StreamCollector struct {
	stream  drepo.TickStream
	proc    *TickProcessor
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
}

// NewStreamCollector creates a new StreamCollector instance.
func NewStreamCollector(stream drepo.TickStream, proc *TickProcessor, metrics drepo.Metrics, pipe *mid.IngestPipeline) *StreamCollector {
	return &StreamCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the tick stream is connected.
func (c *StreamCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Start connects, subscribes and begins consuming in the background.
func (c *StreamCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *StreamCollector) consume(ctx context.Context, tickCh <-chan *models.MarketTick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-tickCh:
			if t == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.proc.Process(ctx, t)
			}
			c.metrics.RecordLastPrice(t.Name, t.PriceUSD)
		}
	}
}

// Processor returns the underlying TickProcessor for lifecycle management.
func (c *StreamCollector) Processor() *TickProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *StreamCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
