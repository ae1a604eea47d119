// Package profile provides a simple way to generate pprof compatible
// profiles of where gates are added to a circuit.
//
// Circuit construction operates in a single go-routine; profiling sessions
// are nevertheless guarded by a mutex so independent builders on separate
// go-routines do not race on the session list.
package profile

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/pprof/profile"
	"github.com/hapel-cqc/pytket/logger"
)

var (
	mu             sync.Mutex
	sessions       []*Profile // active sessions
	activeSessions uint32
)

// Profile represents an active gate profiling session.
type Profile struct {
	// defaults to ./pytket.pprof
	// if blank, profile is not written to disk
	filePath string

	// details on pprof format: https://github.com/google/pprof/blob/main/proto/README.md
	pprof profile.Profile

	functions map[string]*profile.Function
	locations map[uint64]*profile.Location
}

// Option defines configuration Options for Profile.
type Option func(*Profile)

// WithPath controls the profile destination file. If blank, profile is not written.
//
// Defaults to ./pytket.pprof.
func WithPath(path string) Option {
	return func(p *Profile) {
		p.filePath = path
	}
}

// WithNoOutput indicates that the profile is not going to be written to disk.
//
// This is equivalent to WithPath("")
func WithNoOutput() Option {
	return func(p *Profile) {
		p.filePath = ""
	}
}

// Start creates a new active profiling session. When Stop() is called, the
// session is removed from the active sessions and may be serialized to disk
// as a pprof compatible file (see WithPath option).
//
// It is allowed to create multiple overlapping profiling sessions for one
// circuit.
func Start(options ...Option) *Profile {
	p := Profile{
		functions: make(map[string]*profile.Function),
		locations: make(map[uint64]*profile.Location),
		filePath:  filepath.Join(".", "pytket.pprof"),
	}
	p.pprof.SampleType = []*profile.ValueType{{
		Type: "gates",
		Unit: "count",
	}}

	for _, option := range options {
		option(&p)
	}

	log := logger.Logger()
	if p.filePath == "" {
		log.Warn().Msg("gate profiling enabled [not writing to disk]")
	} else {
		log.Info().Str("path", p.filePath).Msg("gate profiling enabled")
	}

	mu.Lock()
	sessions = append(sessions, &p)
	mu.Unlock()
	atomic.AddUint32(&activeSessions, 1)

	return &p
}

// Stop removes the profile from the active sessions and may write the pprof
// file to disk. See WithPath option.
func (p *Profile) Stop() {
	log := logger.Logger()

	mu.Lock()
	removed := false
	for i := range sessions {
		if sessions[i] == p {
			sessions = append(sessions[:i], sessions[i+1:]...)
			removed = true
			break
		}
	}
	mu.Unlock()
	if !removed {
		log.Fatal().Msg("gate profile stopped multiple times")
	}
	atomic.AddUint32(&activeSessions, ^uint32(0))

	if p.filePath != "" {
		f, err := os.Create(p.filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create gate profile")
		}
		if err := p.pprof.Write(f); err != nil {
			log.Error().Err(err).Msg("writing profile")
		}
		f.Close()
		log.Info().Str("path", p.filePath).Msg("gate profiling disabled")
	} else {
		log.Warn().Msg("gate profiling disabled [not writing to disk]")
	}
}

// NbGates returns the number of collected samples (gates) of the session.
func (p *Profile) NbGates() int {
	mu.Lock()
	defer mu.Unlock()
	return len(p.pprof.Sample)
}

// RecordGate adds a sample (with count == 1) to all active profiling
// sessions.
func RecordGate() {
	if n := atomic.LoadUint32(&activeSessions); n == 0 {
		return // do nothing, no active session.
	}

	pc := make([]uintptr, 20)
	n := runtime.Callers(3, pc)
	if n == 0 {
		return
	}
	pc = pc[:n]

	mu.Lock()
	defer mu.Unlock()
	for _, s := range sessions {
		s.sample(pc)
	}
}

func (p *Profile) sample(pc []uintptr) {
	frames := runtime.CallersFrames(pc)
	sample := profile.Sample{Value: []int64{1}}
	for {
		frame, more := frames.Next()
		if frame.Function == "" {
			if !more {
				break
			}
			continue
		}
		sample.Location = append(sample.Location, p.getLocation(&frame))
		if !more {
			break
		}
	}
	p.pprof.Sample = append(p.pprof.Sample, &sample)
}

func (p *Profile) getLocation(frame *runtime.Frame) *profile.Location {
	l, ok := p.locations[uint64(frame.PC)]
	if !ok {
		// first let's see if we have the function.
		f, ok := p.functions[frame.File+frame.Function]
		if !ok {
			fe := frame.Function
			if i := lastSlash(fe); i >= 0 {
				fe = fe[i+1:]
			}
			f = &profile.Function{
				ID:         uint64(len(p.functions) + 1),
				Name:       fe,
				SystemName: frame.Function,
				Filename:   frame.File,
			}

			p.functions[frame.File+frame.Function] = f
			p.pprof.Function = append(p.pprof.Function, f)
		}

		l = &profile.Location{
			ID:   uint64(len(p.locations) + 1),
			Line: []profile.Line{{Function: f, Line: int64(frame.Line)}},
		}
		p.locations[uint64(frame.PC)] = l
		p.pprof.Location = append(p.pprof.Location, l)
	}

	return l
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
