package yahoo

import (
	"testing"
)

const sampleChartBody = `{
	"chart": {
		"result": [{
			"meta": {
				"symbol": "AAPL",
				"regularMarketPrice": 185.5,
				"chartPreviousClose": 180.0,
				"regularMarketVolume": 52000000
			},
			"timestamp": [1705276800, 1705363200, 1705449600],
			"indicators": {
				"quote": [{
					"open":   [182.2, 183.0, null],
					"high":   [184.0, 185.9, null],
					"low":    [181.5, 182.7, null],
					"close":  [183.6, 185.5, null],
					"volume": [48000000, 52000000, null]
				}],
				"adjclose": [{
					"adjclose": [183.1, 185.5, null]
				}]
			}
		}],
		"error": null
	}
}`

func TestParseChart(t *testing.T) {
	result, err := parseChart([]byte(sampleChartBody))
	if err != nil {
		t.Fatalf("parseChart() error = %v", err)
	}
	if result.Meta.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", result.Meta.Symbol)
	}
	if result.Meta.RegularMarketPrice != 185.5 {
		t.Errorf("price = %v, want 185.5", result.Meta.RegularMarketPrice)
	}
}

func TestParseChart_APIError(t *testing.T) {
	body := `{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`

	_, err := parseChart([]byte(body))
	if err == nil {
		t.Fatal("expected error for chart API error payload")
	}
}

func TestParseChart_Malformed(t *testing.T) {
	_, err := parseChart([]byte(`not json`))
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestParseBars_SkipsNullDays(t *testing.T) {
	result, err := parseChart([]byte(sampleChartBody))
	if err != nil {
		t.Fatalf("parseChart() error = %v", err)
	}

	bars := parseBars(result)
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2 (null day skipped)", len(bars))
	}
	if bars[0].Open != 182.2 || bars[0].Close != 183.6 {
		t.Errorf("first bar = %+v, want open 182.2 close 183.6", bars[0])
	}
	if bars[0].AdjClose != 183.1 {
		t.Errorf("adj close = %v, want 183.1", bars[0].AdjClose)
	}
	if bars[1].Volume != 52000000 {
		t.Errorf("volume = %d, want 52000000", bars[1].Volume)
	}
}

func TestParseBars_MissingAdjCloseFallsBackToClose(t *testing.T) {
	body := `{
		"chart": {
			"result": [{
				"meta": {"symbol": "BTC-USD"},
				"timestamp": [1705276800],
				"indicators": {
					"quote": [{
						"open": [42000.0], "high": [43000.0], "low": [41500.0],
						"close": [42800.0], "volume": [1000]
					}]
				}
			}],
			"error": null
		}
	}`

	result, err := parseChart([]byte(body))
	if err != nil {
		t.Fatalf("parseChart() error = %v", err)
	}

	bars := parseBars(result)
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1", len(bars))
	}
	if bars[0].AdjClose != bars[0].Close {
		t.Errorf("adj close = %v, want close %v", bars[0].AdjClose, bars[0].Close)
	}
}
