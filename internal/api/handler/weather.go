package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/sgweather/sgweather/internal/api/response"
	"github.com/sgweather/sgweather/internal/store"
	"github.com/sgweather/sgweather/internal/weather"
)

// WeatherStore is the read side of the persistence layer consumed by the API.
type WeatherStore interface {
	LoadLatest() (*weather.Reading, error)
	LoadDailySummary(date string) (*weather.DailySummary, error)
}

// WeatherHandler serves the persisted readings and summaries.
type WeatherHandler struct {
	store WeatherStore
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(st WeatherStore) *WeatherHandler {
	return &WeatherHandler{store: st}
}

// Latest handles GET /v1/weather/latest - the current Reading. This is the
// same content as the latest.json file the dashboard reads directly.
func (h *WeatherHandler) Latest(w http.ResponseWriter, r *http.Request) {
	reading, err := h.store.LoadLatest()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w, r, "no reading collected yet")
			return
		}
		response.InternalError(w, r, "failed to load latest reading")
		return
	}
	response.JSON(w, r, http.StatusOK, reading)
}

// Summary handles GET /v1/weather/summary?date=YYYY-MM-DD - a daily summary.
// Defaults to today's UTC date when no date is given.
func (h *WeatherHandler) Summary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		response.BadRequest(w, r, "date must be YYYY-MM-DD")
		return
	}

	summary, err := h.store.LoadDailySummary(date)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w, r, "no summary for "+date)
			return
		}
		response.InternalError(w, r, "failed to load daily summary")
		return
	}
	response.JSON(w, r, http.StatusOK, summary)
}
