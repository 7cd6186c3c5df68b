package engine

import (
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/resource-pool/config"
	"github.com/wippyai/resource-pool/resource"
)

// Device owns every resource pool of one engine instance. Pools are fields,
// created in Open and torn down in Close; nothing is global.
type Device struct {
	id       uuid.UUID
	log      *zap.Logger
	limits   config.Limits
	registry *resource.Registry
	closed   bool

	Graphics *Graphics
	Audio    *Audio
	Assets   *Assets
}

type deviceOptions struct {
	graphics  GraphicsBackend
	audio     AudioBackend
	log       *zap.Logger
	observers []resource.Observer
}

// DeviceOption configures Open.
type DeviceOption func(*deviceOptions)

func WithGraphicsBackend(b GraphicsBackend) DeviceOption {
	return func(o *deviceOptions) { o.graphics = b }
}

func WithAudioBackend(b AudioBackend) DeviceOption {
	return func(o *deviceOptions) { o.audio = b }
}

func WithLogger(l *zap.Logger) DeviceOption {
	return func(o *deviceOptions) { o.log = l }
}

// WithObserver subscribes obs to every pool of the device.
func WithObserver(obs resource.Observer) DeviceOption {
	return func(o *deviceOptions) { o.observers = append(o.observers, obs) }
}

// Open creates a device with pools sized by limits. Backends default to the
// no-op implementations.
func Open(limits config.Limits, opts ...DeviceOption) (*Device, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	o := deviceOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.graphics == nil {
		o.graphics = NewNoopGraphics()
	}
	if o.audio == nil {
		o.audio = NewNoopAudio()
	}
	if o.log == nil {
		o.log = Logger()
	}

	id := uuid.New()
	log := o.log.With(zap.String("device", id.String()))

	d := &Device{
		id:       id,
		log:      log,
		limits:   limits,
		registry: resource.NewRegistry(),
	}
	d.Graphics = NewGraphics(o.graphics, limits, log, o.observers...)
	d.Audio = NewAudio(o.audio, limits, log, o.observers...)
	d.Assets = NewAssets(d.Graphics, limits, log, o.observers...)

	// registration order is teardown order reversed: assets before the
	// graphics resources they own
	for _, group := range [][]resource.Pooler{d.Graphics.Pools(), d.Audio.Pools(), d.Assets.Pools()} {
		for _, p := range group {
			if err := d.registry.Register(p); err != nil {
				return nil, err
			}
		}
	}

	log.Info("device opened", zap.Int("pools", d.registry.Len()))
	return d, nil
}

func (d *Device) ID() uuid.UUID { return d.id }

func (d *Device) Limits() config.Limits { return d.limits }

// Registry exposes the device's pools by kind for scripting and wasm hosts.
func (d *Device) Registry() *resource.Registry { return d.registry }

// PoolStats is a snapshot of one pool.
type PoolStats struct {
	Kind       string
	Count      uint32
	Cap        uint32
	Named      bool
	RecordSize uintptr
}

// Footprint returns the record storage reserved by the pool.
func (s PoolStats) Footprint() uint64 {
	return uint64(s.RecordSize) * uint64(s.Cap)
}

// FootprintString renders Footprint for humans, e.g. "24 KiB".
func (s PoolStats) FootprintString() string {
	return humanize.IBytes(s.Footprint())
}

// Stats returns one entry per pool in registration order.
func (d *Device) Stats() []PoolStats {
	return Stats(d.registry)
}

// Stats snapshots every pool in r.
func Stats(r *resource.Registry) []PoolStats {
	pools := r.Pools()
	out := make([]PoolStats, len(pools))
	for i, p := range pools {
		out[i] = PoolStats{
			Kind:       p.Kind(),
			Count:      p.Count(),
			Cap:        p.Cap(),
			Named:      p.Named(),
			RecordSize: p.RecordSize(),
		}
	}
	return out
}

// Close destroys every live resource, assets first, then closes the
// backends. Errors from all steps are combined. Closing twice is a no-op.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	purged, err := d.Assets.Purge()
	n, perr := d.registry.PurgeAll()
	purged += n
	err = multierr.Combine(err, perr, d.Graphics.close(), d.Audio.close())

	d.log.Info("device closed", zap.Int("purged", purged), zap.Error(err))
	return err
}
