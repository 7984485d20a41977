package catalog

import (
	"context"

	"github.com/FlagBrew/local-dex/internal/models"
	"github.com/apex/log"
)

func (s *Service) BattlePower(ctx context.Context, id int) (float64, error) {
	p, err := s.mustGet(ctx, id)
	if err != nil {
		return 0, err
	}

	power := models.BattlePower(p)
	log.FromContext(ctx).WithFields(log.Fields{"name": p.Name, "power": power}).Debug("calculated battle power")
	return power, nil
}

// Compare scores both Pokemon. Exactly equal powers are a tie.
func (s *Service) Compare(ctx context.Context, firstID, secondID int) (*models.Comparison, error) {
	first, err := s.mustGet(ctx, firstID)
	if err != nil {
		return nil, err
	}
	second, err := s.mustGet(ctx, secondID)
	if err != nil {
		return nil, err
	}

	s.metrics.IncCompare()
	return models.Compare(first, second), nil
}
