package dao

import (
	"testing"
)

func TestRunRecordAndList(t *testing.T) {
	d, err := NewRunDAO(newTestStore(t), "")
	if err != nil {
		t.Fatalf("NewRunDAO() error = %v", err)
	}
	defer d.Close()

	for i := 0; i < 3; i++ {
		run := &Run{
			Kinds:      []string{"caesar", "vigenere"},
			Mode:       "encrypt",
			InputLen:   100 + i,
			OutputLen:  100 + i,
			Workers:    4,
			DurationMs: 2,
		}
		if err := d.Record(run); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if run.ID != uint64(i+1) {
			t.Errorf("Record() assigned ID %d, want %d", run.ID, i+1)
		}
		if run.CreatedAt.IsZero() {
			t.Error("Record() did not stamp CreatedAt")
		}
	}

	runs, err := d.List(2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("List(2) returned %d runs, want 2", len(runs))
	}
	// Newest first.
	if runs[0].ID != 3 || runs[1].ID != 2 {
		t.Errorf("List() order = [%d, %d], want [3, 2]", runs[0].ID, runs[1].ID)
	}
	if runs[0].InputLen != 102 {
		t.Errorf("List()[0].InputLen = %d, want 102", runs[0].InputLen)
	}
}

func TestRunDAODisabledMirror(t *testing.T) {
	d, err := NewRunDAO(newTestStore(t), "")
	if err != nil {
		t.Fatalf("NewRunDAO() error = %v", err)
	}
	if d.mirror != nil {
		t.Error("mirror opened without a DSN")
	}
	// Recording with the mirror disabled is a pure bbolt write.
	if err := d.Record(&Run{Kinds: []string{"caesar"}, Mode: "encrypt"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestRunDAORejectsBadDSN(t *testing.T) {
	if _, err := NewRunDAO(newTestStore(t), "this is not a dsn"); err == nil {
		t.Fatal("NewRunDAO() expected error for malformed DSN")
	}
}

func TestRunDAOAcceptsValidDSN(t *testing.T) {
	// Construction only parses the DSN; no connection is made until the
	// first mirrored insert, so an unreachable host is fine here.
	d, err := NewRunDAO(newTestStore(t), "user:pw@tcp(127.0.0.1:3306)/ciphers?parseTime=true")
	if err != nil {
		t.Fatalf("NewRunDAO() error = %v", err)
	}
	if d.mirror == nil {
		t.Error("mirror not opened for a valid DSN")
	}
	d.Close()
}
