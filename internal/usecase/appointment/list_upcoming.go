package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/horacerta/internal/domain/appointment"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

type ListUpcoming struct {
	repo domain.Repository
	deps Deps
}

func NewListUpcoming(repo domain.Repository, deps Deps) *ListUpcoming {
	return &ListUpcoming{repo: repo, deps: deps.withDefaults()}
}

func (uc *ListUpcoming) Execute(ctx context.Context, customerID string) ([]models.Appointment, error) {
	return uc.repo.ListUpcoming(ctx, customerID, uc.deps.Now())
}
