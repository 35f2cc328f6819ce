package plugin

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/san-kum/hrsim/internal/logger"
	"github.com/san-kum/hrsim/internal/neuron"
)

// Host owns instances behind opaque handles.
type Host struct {
	mu        sync.RWMutex
	instances map[uint64]*Instance
	next      uint64
	opts      []neuron.Option
	log       *log.Logger
}

// NewHost returns an empty host. opts are applied to every engine it creates.
func NewHost(opts ...neuron.Option) *Host {
	return &Host{
		instances: make(map[uint64]*Instance),
		next:      1,
		opts:      opts,
		log:       logger.NewStyledLogger("host"),
	}
}

// Create instantiates variantID and returns its handle. Handles start at 1
// and are never reused.
func (h *Host) Create(variantID string) (uint64, error) {
	in, err := NewInstance(variantID, h.opts...)
	if err != nil {
		h.log.Warn("create failed", "variant", variantID, "err", err)
		return 0, err
	}

	h.mu.Lock()
	handle := h.next
	h.next++
	h.instances[handle] = in
	h.mu.Unlock()

	h.log.Debug("created", "variant", variantID, "handle", handle)
	return handle, nil
}

func (h *Host) Get(handle uint64) (*Instance, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	in, ok := h.instances[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, handle)
	}
	return in, nil
}

// Destroy closes and forgets the instance behind handle.
func (h *Host) Destroy(handle uint64) error {
	h.mu.Lock()
	in, ok := h.instances[handle]
	delete(h.instances, handle)
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, handle)
	}
	in.Close()
	h.log.Debug("destroyed", "handle", handle)
	return nil
}

// Handles lists live handles in ascending order.
func (h *Host) Handles() []uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]uint64, 0, len(h.instances))
	for k := range h.instances {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Shutdown destroys every instance.
func (h *Host) Shutdown() {
	for _, handle := range h.Handles() {
		_ = h.Destroy(handle)
	}
}

func (h *Host) Variants() []Variant { return Variants() }
