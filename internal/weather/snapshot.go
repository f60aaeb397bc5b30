package weather

import (
	"context"
	"time"

	"github.com/cwhuang-tw/linebot-gemini/internal/models"
)

// CurrentSnapshot runs the full fetch → simplify → select chain for one
// location. found=false means the provider answered but no forecast
// window was usable; errors mean the provider itself failed.
func (c *Client) CurrentSnapshot(ctx context.Context, location string, now time.Time) (models.WeatherSnapshot, bool, error) {
	forecast, err := c.Fetch(ctx, location)
	if err != nil {
		return models.WeatherSnapshot{}, false, err
	}
	windows := Simplify(forecast, location)
	snapshot, found := Current(windows, location, now)
	return snapshot, found, nil
}
