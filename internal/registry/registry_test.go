package registry

import (
	"errors"
	"testing"
)

const testMembers = `
- name: Nancy Pelosi
  party: Democratic
  chamber: House
  state: CA
  district: CA-11
  cik: "0001708138"
  track_filings: true
- name: Tommy Tuberville
  party: Republican
  chamber: Senate
  state: AL
- name: Ro Khanna
  party: Democratic
  chamber: House
  state: CA
  district: CA-17
  track_filings: true
`

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := Parse([]byte(testMembers))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return r
}

func TestLoadEmbedded(t *testing.T) {
	r, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(r.Tracked()) == 0 {
		t.Error("Expected at least one tracked member in the embedded table")
	}
}

func TestFindCaseInsensitive(t *testing.T) {
	r := testRegistry(t)

	m, ok := r.Find("nancy pelosi")
	if !ok {
		t.Fatal("Expected to find member by lowercase name")
	}
	if m.Chamber != "House" || m.State != "CA" {
		t.Errorf("Unexpected member fields: %+v", m)
	}

	if _, ok := r.Find("Unknown Person"); ok {
		t.Error("Expected miss for unknown name")
	}
}

func TestTracked(t *testing.T) {
	r := testRegistry(t)

	tracked := r.Tracked()
	if len(tracked) != 2 {
		t.Fatalf("Expected 2 tracked members, got %d", len(tracked))
	}
	for _, m := range tracked {
		if !m.TrackFilings {
			t.Errorf("Member %s returned from Tracked without the flag", m.Name)
		}
	}
}

func TestFilingIdentity(t *testing.T) {
	r := testRegistry(t)

	cik, err := r.FilingIdentity("Nancy Pelosi")
	if err != nil {
		t.Fatalf("FilingIdentity failed: %v", err)
	}
	if cik != "0001708138" {
		t.Errorf("Expected CIK 0001708138, got %q", cik)
	}
}

func TestFilingIdentityMissingCIK(t *testing.T) {
	r := testRegistry(t)

	_, err := r.FilingIdentity("Ro Khanna")
	if err == nil {
		t.Fatal("Expected a configuration error for tracked member without CIK")
	}

	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *ConfigurationError, got %T", err)
	}
	if ce.Name != "Ro Khanna" || ce.Field != "cik" {
		t.Errorf("Unexpected error fields: %+v", ce)
	}
}

func TestFilingIdentityUnknownMember(t *testing.T) {
	r := testRegistry(t)

	_, err := r.FilingIdentity("Nobody At All")
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *ConfigurationError, got %T", err)
	}
}
