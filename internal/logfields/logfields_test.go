package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"ExportID", KeyExportID, "e1", ExportID("e1")},
		{"Target", KeyTarget, "static", Target("static")},
		{"Phase", KeyPhase, "generating", Phase("generating")},
		{"Stage", KeyStage, "render_pages", Stage("render_pages")},
		{"Page", KeyPage, "about", Page("about")},
		{"Language", KeyLanguage, "fr", Language("fr")},
		{"Component", KeyComponent, "hero", Component("hero")},
		{"Asset", KeyAsset, "image-1.png", Asset("image-1.png")},
		{"Path", KeyPath, "about/index.html", Path("about/index.html")},
		{"Platform", KeyPlatform, "netlify", Platform("netlify")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	attr = Error(errTest{})
	if attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
