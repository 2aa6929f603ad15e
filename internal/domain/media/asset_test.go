package media

import (
	"testing"
	"time"
)

func TestAssetLifecycleHappyPath(t *testing.T) {
	a := NewAsset("frame_0", KindFrame, "/tmp/frame_0.jpg", time.Now())

	if got := a.State(); got != StateLocal {
		t.Fatalf("new asset state = %s, want %s", got, StateLocal)
	}
	if !a.MarkUploading() {
		t.Fatal("MarkUploading on local asset should succeed")
	}
	if !a.MarkRemoteProcessing("file-abc") {
		t.Fatal("MarkRemoteProcessing on uploading asset should succeed")
	}
	if got := a.RemoteHandle(); got != "file-abc" {
		t.Fatalf("remote handle = %q, want %q", got, "file-abc")
	}
	if !a.MarkReady("") {
		t.Fatal("MarkReady on processing asset should succeed")
	}
	if got := a.State(); got != StateReady {
		t.Fatalf("state = %s, want %s", got, StateReady)
	}
	// handle from the ack survives a ready transition without one
	if got := a.RemoteHandle(); got != "file-abc" {
		t.Fatalf("remote handle after ready = %q, want %q", got, "file-abc")
	}
}

func TestTerminalStatesAreSticky(t *testing.T) {
	ready := NewAsset("a", KindDocument, "/tmp/a.pdf", time.Now())
	ready.MarkReady("file-1")
	if ready.MarkFailed("late failure") {
		t.Error("MarkFailed on ready asset should be refused")
	}
	if got := ready.State(); got != StateReady {
		t.Errorf("ready asset moved to %s", got)
	}

	failed := NewAsset("b", KindVideo, "/tmp/b.mp4", time.Now())
	failed.MarkFailed("codec unsupported")
	if failed.MarkReady("file-2") {
		t.Error("MarkReady on failed asset should be refused")
	}
	if failed.MarkUploading() {
		t.Error("MarkUploading on failed asset should be refused")
	}
	if got := failed.FailReason(); got != "codec unsupported" {
		t.Errorf("fail reason = %q, want the verbatim remote reason", got)
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []State{StateLocal, StateUploading, StateRemoteProcessing} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []State{StateReady, StateFailed} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}
