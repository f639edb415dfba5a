package motion

import (
	"errors"
	"fmt"
	"log"
	"sort"
)

// ErrDuplicateDefault reports an attempt to register a second default
// motion. A registry allows exactly one default; the offending Register
// call fails and the registry is left unchanged.
var ErrDuplicateDefault = errors.New("registry already has a default motion")

// ErrUnknownMotion reports a playback request for a name that was never
// registered. Recoverable: the playback layer logs it and leaves the
// current motion unchanged.
var ErrUnknownMotion = errors.New("motion is not registered")

// PlaybackConfig is the per-motion playback configuration held by the
// registry alongside the asset.
type PlaybackConfig struct {
	// IsDefault marks the motion the playback layer falls back to when
	// nothing else is driving the actor. At most one per registry.
	IsDefault bool

	// BlendDuration is the crossfade length in seconds used when
	// switching to this motion. Zero switches hard.
	BlendDuration float64

	// Interruptible controls whether the motion may be replaced before
	// it finishes naturally. Non-interruptible motions reject Play
	// unless the caller forces the switch.
	Interruptible bool
}

// Registry is the canonical table of motion assets and their playback
// configuration. It is written only during setup; after registration it
// is read-only and may be shared by any number of playback managers
// across actors without locking.
type Registry struct {
	assets      map[string]*MotionAsset
	configs     map[string]PlaybackConfig
	defaultName string
}

// NewRegistry creates an empty motion registry.
func NewRegistry() *Registry {
	return &Registry{
		assets:  make(map[string]*MotionAsset),
		configs: make(map[string]PlaybackConfig),
	}
}

// Register validates the asset and inserts it with its playback config.
// Re-registering an existing name overwrites the previous entry.
//
// Fails with ErrDuplicateDefault (wrapped) when cfg.IsDefault is set and
// a different motion is already the default, and with the asset's
// validation error (including ErrInvalidKeyframeOrder) for malformed
// keyframe data. On failure the registry is unchanged.
func (r *Registry) Register(asset *MotionAsset, cfg PlaybackConfig) error {
	if asset == nil || asset.Name == "" {
		return fmt.Errorf("cannot register a nil or unnamed motion asset")
	}
	if err := asset.Validate(); err != nil {
		return err
	}
	if cfg.BlendDuration < 0 {
		return fmt.Errorf("motion '%s' has negative blend duration %.4f", asset.Name, cfg.BlendDuration)
	}
	if cfg.IsDefault && r.defaultName != "" && r.defaultName != asset.Name {
		return fmt.Errorf("motion '%s' cannot be default, '%s' already is: %w",
			asset.Name, r.defaultName, ErrDuplicateDefault)
	}

	if r.defaultName == asset.Name && !cfg.IsDefault {
		// Overwriting the default entry with a non-default config
		// clears the default slot.
		r.defaultName = ""
	}
	if cfg.IsDefault {
		r.defaultName = asset.Name
	}
	r.assets[asset.Name] = asset
	r.configs[asset.Name] = cfg

	log.Printf("[MotionRegistry] Registered motion '%s' (duration=%.2fs, loop=%v, default=%v, blend=%.2fs, interruptible=%v)",
		asset.Name, asset.Duration, asset.Loop, cfg.IsDefault, cfg.BlendDuration, cfg.Interruptible)
	return nil
}

// Get returns the asset registered under name.
func (r *Registry) Get(name string) (*MotionAsset, error) {
	asset, ok := r.assets[name]
	if !ok {
		return nil, fmt.Errorf("motion '%s': %w", name, ErrUnknownMotion)
	}
	return asset, nil
}

// Config returns the playback configuration registered under name.
func (r *Registry) Config(name string) (PlaybackConfig, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return PlaybackConfig{}, fmt.Errorf("motion '%s': %w", name, ErrUnknownMotion)
	}
	return cfg, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.assets[name]
	return ok
}

// DefaultName returns the name of the default motion, or "" when no
// default has been registered.
func (r *Registry) DefaultName() string {
	return r.defaultName
}

// Names returns all registered motion names in sorted order.
// Intended for tooling and debug output.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.assets))
	for name := range r.assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
