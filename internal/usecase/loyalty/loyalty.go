package loyalty

import (
	"context"
	"time"

	"github.com/BruksfildServices01/horacerta/internal/audit"
	"github.com/BruksfildServices01/horacerta/internal/domain/billing"
	"github.com/BruksfildServices01/horacerta/internal/httperr"
	"github.com/BruksfildServices01/horacerta/internal/models"
)

// CountStamps shows a customer's card at one shop.
type CountStamps struct {
	repo billing.Repository
}

func NewCountStamps(repo billing.Repository) *CountStamps {
	return &CountStamps{repo: repo}
}

func (uc *CountStamps) Execute(ctx context.Context, customerID, barbershopID string) (billing.StampCard, error) {
	shop, err := uc.repo.GetBarbershop(ctx, barbershopID)
	if err != nil {
		return billing.StampCard{}, httperr.NotFoundAs(err, billing.ErrShopNotFound)
	}

	total, err := uc.repo.CountStamps(ctx, customerID, shop.ID)
	if err != nil {
		return billing.StampCard{}, err
	}
	return billing.Card(total, shop.LoyaltyStamps), nil
}

// RedeemReward credits the shop's reward once per completed card.
type RedeemReward struct {
	repo  billing.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewRedeemReward(repo billing.Repository, dispatcher *audit.Dispatcher, now func() time.Time) *RedeemReward {
	if now == nil {
		now = time.Now
	}
	return &RedeemReward{repo: repo, audit: dispatcher, now: now}
}

func (uc *RedeemReward) Execute(ctx context.Context, customerID, barbershopID string) (*models.Balance, error) {
	var entry *models.Balance

	err := uc.repo.Transaction(ctx, func(tx billing.Repository) error {
		shop, err := tx.GetBarbershop(ctx, barbershopID)
		if err != nil {
			return httperr.NotFoundAs(err, billing.ErrShopNotFound)
		}

		// serializes concurrent redeems for the same wallet
		if _, err := tx.LockWallet(ctx, customerID, shop.ID); err != nil {
			return err
		}

		stamps, err := tx.CountStamps(ctx, customerID, shop.ID)
		if err != nil {
			return err
		}
		granted, err := tx.CountRewards(ctx, customerID, shop.ID)
		if err != nil {
			return err
		}
		if !billing.CanRedeem(stamps, shop.LoyaltyStamps, granted) {
			return billing.ErrNoRewardAvailable
		}

		amount := shop.LoyaltyReward
		if amount <= 0 {
			amount = billing.DefaultRewardAmount
		}

		entry = &models.Balance{
			CustomerID:   customerID,
			BarbershopID: shop.ID,
			Amount:       &amount,
			Type:         models.BalanceLoyaltyReward,
			Status:       models.BalanceStatusReceived,
			PaymentDate:  uc.now().UTC(),
		}
		return tx.AppendBalance(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		CustomerID:   customerID,
		Action:       "loyalty_redeemed",
		Entity:       "balance",
		EntityID:     entry.ID,
	})
	return entry, nil
}
