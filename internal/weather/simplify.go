package weather

import (
	"time"

	"github.com/cwhuang-tw/linebot-gemini/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// taipei is the zone the provider's forecast times are expressed in.
var taipei = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}()

// Window is one simplified forecast interval for a location.
type Window struct {
	Start time.Time
	End   time.Time
	Wx    string
	PoP   string
	CI    string
}

// Simplify reduces a raw forecast to the per-window fields a reply
// needs. Windows missing any of Wx, PoP or CI are dropped so only fully
// populated entries reach the selection step.
func Simplify(forecast *Forecast, location string) []Window {
	if forecast == nil {
		return nil
	}
	for _, loc := range forecast.Records.Location {
		if loc.LocationName != location {
			continue
		}

		byWindow := map[string]*Window{}
		var order []string
		for _, element := range loc.WeatherElement {
			for _, t := range element.Time {
				start, err := time.ParseInLocation(timeLayout, t.StartTime, taipei)
				if err != nil {
					continue
				}
				end, err := time.ParseInLocation(timeLayout, t.EndTime, taipei)
				if err != nil {
					continue
				}
				key := t.StartTime + "/" + t.EndTime
				w, ok := byWindow[key]
				if !ok {
					w = &Window{Start: start, End: end}
					byWindow[key] = w
					order = append(order, key)
				}
				switch element.ElementName {
				case "Wx":
					w.Wx = t.Parameter.ParameterName
				case "PoP":
					w.PoP = t.Parameter.ParameterName + "%"
				case "CI":
					w.CI = t.Parameter.ParameterName
				}
			}
		}

		windows := make([]Window, 0, len(order))
		for _, key := range order {
			w := byWindow[key]
			if w.Wx == "" || w.PoP == "" || w.CI == "" {
				continue
			}
			windows = append(windows, *w)
		}
		return windows
	}
	return nil
}

// Current picks the window containing now, or the nearest upcoming one
// if no window contains it. Returns found=false when the forecast holds
// no usable window, which callers must surface as data-unavailable.
func Current(windows []Window, location string, now time.Time) (models.WeatherSnapshot, bool) {
	var upcoming *Window
	for i := range windows {
		w := windows[i]
		if !now.Before(w.Start) && now.Before(w.End) {
			return snapshot(w, location, now), true
		}
		if w.Start.After(now) && (upcoming == nil || w.Start.Before(upcoming.Start)) {
			upcoming = &windows[i]
		}
	}
	if upcoming != nil {
		return snapshot(*upcoming, location, now), true
	}
	return models.WeatherSnapshot{}, false
}

func snapshot(w Window, location string, now time.Time) models.WeatherSnapshot {
	return models.WeatherSnapshot{
		Location:   location,
		Wx:         w.Wx,
		PoP:        w.PoP,
		CI:         w.CI,
		ObservedAt: now,
	}
}
