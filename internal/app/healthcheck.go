package app

import (
	"net/http"

	"github.com/selimacar/cinema-reservation-engine/api"
	"github.com/selimacar/cinema-reservation-engine/internal/vcs"
)

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	systemInfo := api.SystemInfo{
		Version:     vcs.Version(),
		Environment: app.config.Env,
	}

	stats := app.sweeper.GetStats()
	sweeperInfo := api.SweeperInfo{
		Running:       stats.Running,
		SweptHolds:    stats.SweptHolds,
		ReleasedSeats: stats.ReleasedSeats,
	}
	if !stats.LastSweepAt.IsZero() {
		sweeperInfo.LastSweepAt = &stats.LastSweepAt
	}

	resp := api.HealthcheckResponse{
		Status:     status,
		SystemInfo: systemInfo,
		Sweeper:    sweeperInfo,
	}

	app.writeJSON(w, http.StatusOK, resp, nil)
}
