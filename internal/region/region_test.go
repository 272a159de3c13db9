package region

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestAdapter_Adapt_Places(t *testing.T) {
	a := NewAdapter(testLogger())

	got := a.Adapt("Visit the training center in Delhi next week", "tamilnadu")
	want := "Visit the training center in Chennai next week"
	if got != want {
		t.Errorf("Adapt = %q, want %q", got, want)
	}
}

// 地名の置換は大文字小文字を区別しない
func TestAdapter_Adapt_PlacesCaseInsensitive(t *testing.T) {
	a := NewAdapter(testLogger())

	got := a.Adapt("courses available in delhi and mumbai", "kerala")
	want := "courses available in Thiruvananthapuram and Kochi"
	if got != want {
		t.Errorf("Adapt = %q, want %q", got, want)
	}
}

// 単語境界が無い部分一致は置換しない
func TestAdapter_Adapt_PlacesWordBoundary(t *testing.T) {
	a := NewAdapter(testLogger())

	got := a.Adapt("NewDelhiExpress", "tamilnadu")
	if got != "NewDelhiExpress" {
		t.Errorf("Adapt = %q, want unchanged", got)
	}
}

func TestAdapter_Adapt_Currency(t *testing.T) {
	a := NewAdapter(testLogger())

	got := a.Adapt("The tool kit costs $5", "tamilnadu")
	want := "The tool kit costs ₹400"
	if got != want {
		t.Errorf("Adapt = %q, want %q", got, want)
	}

	got = a.Adapt("budget of USD 10", "tamilnadu")
	want = "budget of ₹800"
	if got != want {
		t.Errorf("Adapt = %q, want %q", got, want)
	}
}

func TestAdapter_Adapt_CurrencyRateVariesByRegion(t *testing.T) {
	a := NewAdapter(testLogger())

	got := a.Adapt("costs $10", "kerala")
	want := "costs ₹790"
	if got != want {
		t.Errorf("Adapt = %q, want %q", got, want)
	}
}

func TestAdapter_Adapt_Measurements(t *testing.T) {
	a := NewAdapter(testLogger())

	got := a.Adapt("drive 10 miles then walk 10 feet", "tamilnadu")
	want := "drive 16 kilometers then walk 3 meters"
	if got != want {
		t.Errorf("Adapt = %q, want %q", got, want)
	}
}

// 計量単位の換算はtamilnadu以外の組み込み地域では行わない
func TestAdapter_Adapt_NoMeasurementsForKerala(t *testing.T) {
	a := NewAdapter(testLogger())

	got := a.Adapt("drive 10 miles", "kerala")
	if got != "drive 10 miles" {
		t.Errorf("Adapt = %q, want unchanged", got)
	}
}

func TestAdapter_Adapt_UnknownRegion_ReturnsInput(t *testing.T) {
	a := NewAdapter(testLogger())

	input := "Delhi costs $5"
	if got := a.Adapt(input, "atlantis"); got != input {
		t.Errorf("Adapt = %q, want unchanged", got)
	}
}

func TestAdapter_Available(t *testing.T) {
	a := NewAdapter(testLogger())

	regions := a.Available()
	if len(regions) != 5 {
		t.Fatalf("len(regions) = %d, want 5", len(regions))
	}
	// ソート順で返る
	if regions[0] != "karnataka" {
		t.Errorf("regions[0] = %q, want %q", regions[0], "karnataka")
	}
}

func TestAdapter_LoadDir(t *testing.T) {
	dir := t.TempDir()
	rules := `places:
  Delhi: Guwahati
currency_rate: 81
measurements: true
`
	if err := os.WriteFile(filepath.Join(dir, "assam.yaml"), []byte(rules), 0644); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}

	a := NewAdapter(testLogger())
	if err := a.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	got := a.Adapt("Delhi office charges $2 for 10 miles", "assam")
	want := "Guwahati office charges ₹162 for 16 kilometers"
	if got != want {
		t.Errorf("Adapt = %q, want %q", got, want)
	}
}

func TestAdapter_Add_Overrides(t *testing.T) {
	a := NewAdapter(testLogger())
	a.Add("kerala", Rules{Places: map[string]string{"Delhi": "Kozhikode"}})

	got := a.Adapt("Delhi costs $10", "kerala")
	// 上書き後は通貨換算ルールが無い
	want := "Kozhikode costs $10"
	if got != want {
		t.Errorf("Adapt = %q, want %q", got, want)
	}
}
