package dashboard

import (
	"context"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/models"
	"pastoral-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type StatsResponse struct {
	Total         int64                     `json:"total"`
	Visitors      int64                     `json:"visitors"`
	Integrated    int64                     `json:"integrated"`
	Discipleship  int64                     `json:"discipleship"`
	Neighborhoods []store.NeighborhoodCount `json:"neighborhoods"`
	Statuses      []store.StatusCount       `json:"statuses"`
}

// Stats builds the dashboard summary. The headline counters come from the
// same grouped query as Statuses so they always agree with it.
func Stats(ctx context.Context, s store.Store) (*StatsResponse, error) {
	statuses, err := s.Members().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	hoods, err := s.Members().CountByNeighborhood(ctx)
	if err != nil {
		return nil, err
	}

	resp := &StatsResponse{Neighborhoods: hoods, Statuses: statuses}
	for _, sc := range statuses {
		resp.Total += sc.Count
		switch sc.Status {
		case models.StatusVisitor:
			resp.Visitors = sc.Count
		case models.StatusIntegrated:
			resp.Integrated = sc.Count
		case models.StatusDiscipleship:
			resp.Discipleship = sc.Count
		}
	}
	return resp, nil
}

// GET /api/stats
func StatsHandler(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, err := Stats(c.UserContext(), s)
		if err != nil {
			return apperr.Internal("building stats", err)
		}
		return c.JSON(resp)
	}
}
