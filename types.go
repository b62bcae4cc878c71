package procstream

import (
	"github.com/wagiedev/procstream-go/internal/config"
	"github.com/wagiedev/procstream-go/internal/subprocess"
)

// Re-export types from internal packages

// Stream bridges a push-based byte stream to one converter process.
// Create one with New.
type Stream = subprocess.Stream

// StreamOptions configures the behavior of a Stream.
type StreamOptions = config.Options

// Handler receives data, end and error events from a Stream.
type Handler = config.Handler

// HandlerFuncs adapts optional functions to the Handler interface.
type HandlerFuncs = config.HandlerFuncs

// Duplex is the capability set a Stream exposes to collaborators.
type Duplex = config.Duplex

// DefaultBinary is the converter executable used when none is configured.
const DefaultBinary = config.DefaultBinary
