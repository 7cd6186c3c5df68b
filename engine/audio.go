package engine

import (
	"go.uber.org/zap"

	"github.com/wippyai/resource-pool/config"
	"github.com/wippyai/resource-pool/errors"
	"github.com/wippyai/resource-pool/namehash"
	"github.com/wippyai/resource-pool/resource"
)

type SoundInfo struct {
	Frames     uint32
	Channels   uint8
	SampleRate uint32
	Looping    bool
}

type SoundData struct {
	Frames     uint32
	Channels   uint8
	SampleRate uint32
	Looping    bool
	Plays      uint32
}

// Bytes returns the size of the decoded 16-bit PCM clip.
func (s SoundData) Bytes() uint64 {
	return uint64(s.Frames) * uint64(s.Channels) * 2
}

// Audio owns the sound pool of a device. The pool is locked because clips
// are released from the mixer goroutine when one-shot voices finish.
type Audio struct {
	backend AudioBackend
	log     *zap.Logger

	Sounds *resource.Locked[Sound, SoundData, SoundInfo]
}

func NewAudio(backend AudioBackend, limits config.Limits, log *zap.Logger, obs ...resource.Observer) *Audio {
	if log == nil {
		log = Logger()
	}
	pool := resource.New(KindSound, limits.Sounds, resource.Hooks[Sound, SoundData, SoundInfo]{
		Construct: func(h Sound, rec *SoundData, info SoundInfo) error {
			if info.Frames == 0 || info.Channels == 0 {
				return errors.InvalidInput(errors.PhaseConstruct, "sound has no samples")
			}
			if info.SampleRate == 0 {
				info.SampleRate = 44100
			}
			if err := backend.CreateSound(h, info); err != nil {
				return err
			}
			rec.Frames, rec.Channels = info.Frames, info.Channels
			rec.SampleRate, rec.Looping = info.SampleRate, info.Looping
			return nil
		},
		Destruct: func(h Sound, rec *SoundData) { backend.DestroySound(h) },
	}, poolOptions(log, true, obs)...)

	return &Audio{
		backend: backend,
		log:     log,
		Sounds:  resource.NewLocked(pool),
	}
}

// AcquireSound returns the sound registered under name, constructing it from
// info on first use.
func (a *Audio) AcquireSound(name string, info SoundInfo) (Sound, error) {
	var (
		h   Sound
		err error
	)
	a.Sounds.Do(func(p *resource.Pool[Sound, SoundData, SoundInfo]) {
		h, err = acquire(p, name, info)
	})
	return h, err
}

// Lookup returns the sound registered under name.
func (a *Audio) Lookup(name string) (Sound, bool) {
	return a.Sounds.Lookup(namehash.String(name))
}

// Play starts a voice for h.
func (a *Audio) Play(h Sound) error {
	ok := a.Sounds.With(h, func(rec *SoundData) { rec.Plays++ })
	if !ok {
		return errors.InvalidHandle(errors.PhaseLookup, KindSound, h)
	}
	return a.backend.Play(h)
}

// Release destroys h. It is safe to call from any goroutine.
func (a *Audio) Release(h Sound) error {
	return a.Sounds.Destroy(h)
}

func (a *Audio) Pools() []resource.Pooler {
	return []resource.Pooler{a.Sounds}
}

func (a *Audio) close() error {
	return a.backend.Close()
}
