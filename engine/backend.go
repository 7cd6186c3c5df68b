package engine

import "sync"

// GraphicsBackend owns native GPU objects. The engine calls Create* from a
// pool constructor with a fresh handle and Destroy* from the matching
// destructor, after the handle has already been released.
type GraphicsBackend interface {
	CreateBuffer(h Buffer, info BufferInfo) error
	DestroyBuffer(h Buffer)
	CreateTexture(h Texture, info TextureInfo) error
	DestroyTexture(h Texture)
	CreateShader(h Shader, info ShaderInfo) error
	DestroyShader(h Shader)
	CreateCommandBuffer(h CommandBuffer, info CommandBufferInfo) error
	DestroyCommandBuffer(h CommandBuffer)
	Close() error
}

// AudioBackend owns native sound clips and voices. DestroySound may be called
// from a mixer goroutine.
type AudioBackend interface {
	CreateSound(h Sound, info SoundInfo) error
	DestroySound(h Sound)
	Play(h Sound) error
	Close() error
}

// NoopGraphics accepts every request and only counts live objects. It backs
// headless tools and tests.
type NoopGraphics struct {
	mu   sync.Mutex
	live map[string]int
}

func NewNoopGraphics() *NoopGraphics {
	return &NoopGraphics{live: make(map[string]int)}
}

// Live returns the number of live backend objects of kind.
func (g *NoopGraphics) Live(kind string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.live[kind]
}

func (g *NoopGraphics) add(kind string, n int) {
	g.mu.Lock()
	g.live[kind] += n
	g.mu.Unlock()
}

func (g *NoopGraphics) CreateBuffer(Buffer, BufferInfo) error { g.add(KindBuffer, 1); return nil }
func (g *NoopGraphics) DestroyBuffer(Buffer)                  { g.add(KindBuffer, -1) }

func (g *NoopGraphics) CreateTexture(Texture, TextureInfo) error { g.add(KindTexture, 1); return nil }
func (g *NoopGraphics) DestroyTexture(Texture)                   { g.add(KindTexture, -1) }

func (g *NoopGraphics) CreateShader(Shader, ShaderInfo) error { g.add(KindShader, 1); return nil }
func (g *NoopGraphics) DestroyShader(Shader)                  { g.add(KindShader, -1) }

func (g *NoopGraphics) CreateCommandBuffer(CommandBuffer, CommandBufferInfo) error {
	g.add(KindCommandBuffer, 1)
	return nil
}
func (g *NoopGraphics) DestroyCommandBuffer(CommandBuffer) { g.add(KindCommandBuffer, -1) }

func (g *NoopGraphics) Close() error { return nil }

// NoopAudio is the silent counterpart of NoopGraphics.
type NoopAudio struct {
	mu     sync.Mutex
	live   int
	played int
}

func NewNoopAudio() *NoopAudio { return &NoopAudio{} }

// Live returns the number of live sound clips.
func (a *NoopAudio) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// Played returns how many times Play was called.
func (a *NoopAudio) Played() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.played
}

func (a *NoopAudio) CreateSound(Sound, SoundInfo) error {
	a.mu.Lock()
	a.live++
	a.mu.Unlock()
	return nil
}

func (a *NoopAudio) DestroySound(Sound) {
	a.mu.Lock()
	a.live--
	a.mu.Unlock()
}

func (a *NoopAudio) Play(Sound) error {
	a.mu.Lock()
	a.played++
	a.mu.Unlock()
	return nil
}

func (a *NoopAudio) Close() error { return nil }
