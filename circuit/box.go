package circuit

import (
	"fmt"

	"github.com/hapel-cqc/pytket/logger"
)

// BoxID is the arena handle of a registered box definition.
type BoxID uint32

type boxDef struct {
	name string
	def  *Circuit
}

// Registry is an arena of box definitions addressed by integer handles. A
// definition may only reference boxes registered before it, so a box can
// never directly or transitively contain itself. Registries are explicit
// values passed to the components that need them; there is no global arena.
type Registry struct {
	boxes  []boxDef
	byName map[string]BoxID
}

// NewRegistry returns an empty box arena.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]BoxID)}
}

// Register freezes def as a named box and returns its handle. The
// definition is deep-copied; later mutation of def does not affect the
// registered box. Returns ErrDuplicateID for a reused name and
// ErrUnresolvedBox if the definition references a handle not yet in the
// arena.
func (r *Registry) Register(name string, def *Circuit) (BoxID, error) {
	if def == nil {
		return 0, fmt.Errorf("%w: nil box definition", ErrArgument)
	}
	if name == "" {
		return 0, fmt.Errorf("%w: empty box name", ErrArgument)
	}
	if _, ok := r.byName[name]; ok {
		return 0, fmt.Errorf("%w: box %q", ErrDuplicateID, name)
	}
	for _, op := range def.ops {
		if op.Type != BoxOp {
			continue
		}
		if int(op.Box) >= len(r.boxes) {
			return 0, fmt.Errorf("%w: definition of %q references unregistered box handle %d", ErrUnresolvedBox, name, op.Box)
		}
	}

	id := BoxID(len(r.boxes))
	r.boxes = append(r.boxes, boxDef{name: name, def: def.Clone()})
	r.byName[name] = id

	log := logger.Logger()
	log.Debug().Str("box", name).Uint32("id", uint32(id)).Int("nbOps", def.NumOperations()).Msg("registered box")
	return id, nil
}

// Get returns the definition circuit of the box with the given handle.
// Callers must treat the returned circuit as immutable.
func (r *Registry) Get(id BoxID) (*Circuit, error) {
	if int(id) >= len(r.boxes) {
		return nil, fmt.Errorf("%w: unknown box handle %d", ErrUnresolvedBox, id)
	}
	return r.boxes[id].def, nil
}

// Lookup returns the handle of the named box.
func (r *Registry) Lookup(name string) (BoxID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// BoxName returns the name under which id was registered, or "" for an
// unknown handle.
func (r *Registry) BoxName(id BoxID) string {
	if int(id) >= len(r.boxes) {
		return ""
	}
	return r.boxes[id].name
}

// NumBoxes returns the number of registered boxes.
func (r *Registry) NumBoxes() int { return len(r.boxes) }
