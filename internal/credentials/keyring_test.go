package credentials

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestSecretRoundtrip(t *testing.T) {
	keyring.MockInit()

	if err := SetSecret("test-token", "s3cret"); err != nil {
		t.Fatalf("SetSecret failed: %v", err)
	}

	value, err := GetSecret("test-token")
	if err != nil {
		t.Fatalf("GetSecret failed: %v", err)
	}
	if value != "s3cret" {
		t.Errorf("Expected %q, got %q", "s3cret", value)
	}

	if err := DeleteSecret("test-token"); err != nil {
		t.Fatalf("DeleteSecret failed: %v", err)
	}

	if _, err := GetSecret("test-token"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestSetSecretRejectsEmpty(t *testing.T) {
	keyring.MockInit()

	if err := SetSecret("empty", ""); err == nil {
		t.Error("Expected error for empty secret")
	}
	if err := SetSecret("empty", "   "); err == nil {
		t.Error("Expected error for whitespace secret")
	}
}

func TestHasSecret(t *testing.T) {
	keyring.MockInit()

	exists, err := HasSecret("absent")
	if err != nil {
		t.Fatalf("HasSecret failed: %v", err)
	}
	if exists {
		t.Error("Expected absent secret")
	}

	if err := SetSecret("present", "v"); err != nil {
		t.Fatalf("SetSecret failed: %v", err)
	}

	exists, err = HasSecret("present")
	if err != nil {
		t.Fatalf("HasSecret failed: %v", err)
	}
	if !exists {
		t.Error("Expected secret to exist")
	}
}

func TestDaemonTokenDefaultsName(t *testing.T) {
	keyring.MockInit()

	if err := SetDaemonToken("", "tok"); err != nil {
		t.Fatalf("SetDaemonToken failed: %v", err)
	}

	value, err := GetSecret(DaemonTokenName)
	if err != nil {
		t.Fatalf("GetSecret failed: %v", err)
	}
	if value != "tok" {
		t.Errorf("Expected token under default name, got %q", value)
	}
}
