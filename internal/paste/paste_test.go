package paste

import "testing"

func TestByID(t *testing.T) {
	svc, ok := ByID("mclogs")
	if !ok {
		t.Fatal("expected mclogs to be a known service")
	}
	if svc.DefaultBase != "https://api.mclo.gs" {
		t.Errorf("unexpected default base: %s", svc.DefaultBase)
	}

	if _, ok := ByID("99"); ok {
		t.Error("expected unknown ID to report not found")
	}
	if _, ok := ByID(""); ok {
		t.Error("expected empty ID to report not found")
	}
}

func TestServicesHaveUniqueIDsAndBases(t *testing.T) {
	seen := make(map[string]bool)
	for _, svc := range Services {
		if svc.ID == "" {
			t.Error("service with empty ID")
		}
		if seen[svc.ID] {
			t.Errorf("duplicate service ID: %s", svc.ID)
		}
		seen[svc.ID] = true
		if svc.DefaultBase == "" {
			t.Errorf("service %s has no default base", svc.ID)
		}
		if svc.DisplayName == "" {
			t.Errorf("service %s has no display name", svc.ID)
		}
	}
}

func TestResolveBase(t *testing.T) {
	svc, _ := ByID("hastebin")

	if got := ResolveBase(svc, ""); got != "https://hst.sh" {
		t.Errorf("empty custom base should fall back to default, got %s", got)
	}
	if got := ResolveBase(svc, "https://paste.internal"); got != "https://paste.internal" {
		t.Errorf("custom base should win, got %s", got)
	}
}

func TestByDisplayName(t *testing.T) {
	for _, svc := range Services {
		found, ok := ByDisplayName(svc.DisplayName)
		if !ok || found.ID != svc.ID {
			t.Errorf("display name %q did not resolve to %q", svc.DisplayName, svc.ID)
		}
	}
}
