package media

import (
	"sync"
	"time"
)

// Handle identitas file di remote ingestion service
type Handle string

// Kind enum
type Kind string

const (
	KindVideo    Kind = "video"
	KindImage    Kind = "image"
	KindDocument Kind = "document"
	KindFrame    Kind = "frame"
)

// State enum untuk lifecycle asset
type State string

const (
	StateLocal            State = "local"
	StateUploading        State = "uploading"
	StateRemoteProcessing State = "remote_processing"
	StateReady            State = "ready"
	StateFailed           State = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s State) Terminal() bool {
	return s == StateReady || s == StateFailed
}

// Asset is one unit of media tracked through the ingestion lifecycle.
// The tracker owns it until it reaches StateReady; after that it is
// read-only and shared by reference with synthesis. The Mark* setters
// are called by the tracker only.
type Asset struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	LocalPath string    `json:"local_path"`
	CreatedAt time.Time `json:"created_at"`

	mu           sync.Mutex
	remoteHandle Handle
	state        State
	failReason   string
}

func NewAsset(id string, kind Kind, localPath string, now time.Time) *Asset {
	return &Asset{
		ID:        id,
		Kind:      kind,
		LocalPath: localPath,
		CreatedAt: now,
		state:     StateLocal,
	}
}

// State returns the last observed lifecycle state.
func (a *Asset) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// RemoteHandle is empty until the upload call has been acknowledged.
func (a *Asset) RemoteHandle() Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.remoteHandle
}

// FailReason is the verbatim remote reason, set only in StateFailed.
func (a *Asset) FailReason() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failReason
}

// MarkUploading Local -> Uploading
func (a *Asset) MarkUploading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Terminal() {
		return false
	}
	a.state = StateUploading
	return true
}

// MarkRemoteProcessing Uploading -> RemoteProcessing, endpoint sudah ack
func (a *Asset) MarkRemoteProcessing(h Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Terminal() {
		return false
	}
	a.remoteHandle = h
	a.state = StateRemoteProcessing
	return true
}

// MarkReady terminal success. Once ready or failed the asset never
// changes again, whatever a late poll says.
func (a *Asset) MarkReady(h Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Terminal() {
		return false
	}
	if h != "" {
		a.remoteHandle = h
	}
	a.state = StateReady
	return true
}

// MarkFailed terminal failure with the remote reason kept verbatim.
func (a *Asset) MarkFailed(reason string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Terminal() {
		return false
	}
	a.state = StateFailed
	a.failReason = reason
	return true
}
