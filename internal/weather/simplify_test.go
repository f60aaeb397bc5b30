package weather

import (
	"encoding/json"
	"testing"
	"time"
)

const forecastFixture = `{
  "records": {
    "location": [
      {
        "locationName": "臺北市",
        "weatherElement": [
          {
            "elementName": "Wx",
            "time": [
              {"startTime": "2024-05-01 06:00:00", "endTime": "2024-05-01 18:00:00",
               "parameter": {"parameterName": "多雲"}},
              {"startTime": "2024-05-01 18:00:00", "endTime": "2024-05-02 06:00:00",
               "parameter": {"parameterName": "陰短暫雨"}}
            ]
          },
          {
            "elementName": "PoP",
            "time": [
              {"startTime": "2024-05-01 06:00:00", "endTime": "2024-05-01 18:00:00",
               "parameter": {"parameterName": "20", "parameterUnit": "百分比"}},
              {"startTime": "2024-05-01 18:00:00", "endTime": "2024-05-02 06:00:00",
               "parameter": {"parameterName": "70", "parameterUnit": "百分比"}}
            ]
          },
          {
            "elementName": "CI",
            "time": [
              {"startTime": "2024-05-01 06:00:00", "endTime": "2024-05-01 18:00:00",
               "parameter": {"parameterName": "舒適"}},
              {"startTime": "2024-05-01 18:00:00", "endTime": "2024-05-02 06:00:00",
               "parameter": {"parameterName": "稍有寒意"}}
            ]
          }
        ]
      }
    ]
  }
}`

func loadFixture(t *testing.T) *Forecast {
	t.Helper()
	var forecast Forecast
	if err := json.Unmarshal([]byte(forecastFixture), &forecast); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return &forecast
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation(timeLayout, value, taipei)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return ts
}

func TestSimplify(t *testing.T) {
	windows := Simplify(loadFixture(t), "臺北市")
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[0].Wx != "多雲" || windows[0].PoP != "20%" || windows[0].CI != "舒適" {
		t.Errorf("unexpected first window: %+v", windows[0])
	}
	if windows[1].Wx != "陰短暫雨" {
		t.Errorf("unexpected second window: %+v", windows[1])
	}
}

func TestSimplifyUnknownLocation(t *testing.T) {
	if windows := Simplify(loadFixture(t), "高雄市"); windows != nil {
		t.Fatalf("expected no windows for unlisted location, got %v", windows)
	}
}

func TestSimplifyDropsPartialWindows(t *testing.T) {
	forecast := loadFixture(t)
	// Remove CI entirely so no window is fully populated.
	elements := forecast.Records.Location[0].WeatherElement
	forecast.Records.Location[0].WeatherElement = elements[:2]

	if windows := Simplify(forecast, "臺北市"); len(windows) != 0 {
		t.Fatalf("expected partial windows to be dropped, got %v", windows)
	}
}

func TestCurrentContainingWindow(t *testing.T) {
	windows := Simplify(loadFixture(t), "臺北市")

	snapshot, found := Current(windows, "臺北市", at(t, "2024-05-01 12:00:00"))
	if !found {
		t.Fatal("expected a containing window")
	}
	if snapshot.Wx != "多雲" {
		t.Errorf("picked wrong window: %+v", snapshot)
	}
	if snapshot.Location != "臺北市" {
		t.Errorf("snapshot location = %q", snapshot.Location)
	}
}

func TestCurrentNearestUpcoming(t *testing.T) {
	windows := Simplify(loadFixture(t), "臺北市")

	snapshot, found := Current(windows, "臺北市", at(t, "2024-05-01 03:00:00"))
	if !found {
		t.Fatal("expected the nearest upcoming window")
	}
	if snapshot.Wx != "多雲" {
		t.Errorf("picked wrong window: %+v", snapshot)
	}
}

func TestCurrentAbsentWhenAllWindowsPast(t *testing.T) {
	windows := Simplify(loadFixture(t), "臺北市")

	if _, found := Current(windows, "臺北市", at(t, "2024-05-03 00:00:00")); found {
		t.Fatal("expected absent snapshot when every window is in the past")
	}
}

func TestCurrentAbsentOnEmptyWindows(t *testing.T) {
	if _, found := Current(nil, "臺北市", time.Now()); found {
		t.Fatal("expected absent snapshot for empty windows")
	}
}

func TestResolveLocation(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"明天高雄市會下雨嗎", "高雄市"},
		{"台北市天氣如何", "臺北市"},
		{"今天心情不好", "臺北市"},
	}
	for _, c := range cases {
		if got := ResolveLocation(c.text, "台北市"); got != c.want {
			t.Errorf("ResolveLocation(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}
