package universe

import "testing"

func TestContains(t *testing.T) {
	if !Contains("AAPL") {
		t.Error("expected AAPL in universe")
	}
	if Contains("ZZZZ") {
		t.Error("did not expect ZZZZ in universe")
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		symbol string
		ba     bool
		crypto bool
		etf    bool
	}{
		{"GGAL.BA", true, false, false},
		{"BTC-USD", false, true, false},
		{"SPY", false, false, true},
		{"AAPL", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			if got := IsBuenosAires(tt.symbol); got != tt.ba {
				t.Errorf("IsBuenosAires() = %v, want %v", got, tt.ba)
			}
			if got := IsCrypto(tt.symbol); got != tt.crypto {
				t.Errorf("IsCrypto() = %v, want %v", got, tt.crypto)
			}
			if got := IsETF(tt.symbol); got != tt.etf {
				t.Errorf("IsETF() = %v, want %v", got, tt.etf)
			}
		})
	}
}

func TestCategoriesCoverUniverse(t *testing.T) {
	total := 0
	for _, group := range Categories() {
		total += len(group)
	}
	if total != len(Symbols) {
		t.Errorf("categories cover %d symbols, want %d", total, len(Symbols))
	}
}
