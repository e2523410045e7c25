package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"pickem/domain/entities"
	"pickem/domain/events"
	"pickem/domain/interfaces"
	"pickem/domain/utils"

	log "github.com/sirupsen/logrus"
)

type slipService struct {
	slipRepo       interfaces.SlipRepository
	eventRepo      interfaces.SportEventRepository
	userRepo       interfaces.UserRepository
	oddsProvider   interfaces.OddsProvider
	eventPublisher interfaces.EventPublisher

	odds       *OddsConverter
	pricing    *PricingEngine
	difficulty *DifficultyEngine
	gate       *TierGate
}

// NewSlipService creates a new slip lifecycle service
func NewSlipService(
	slipRepo interfaces.SlipRepository,
	eventRepo interfaces.SportEventRepository,
	userRepo interfaces.UserRepository,
	oddsProvider interfaces.OddsProvider,
	eventPublisher interfaces.EventPublisher,
) interfaces.SlipService {
	return &slipService{
		slipRepo:       slipRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		oddsProvider:   oddsProvider,
		eventPublisher: eventPublisher,
		odds:           NewOddsConverter(),
		pricing:        NewPricingEngine(),
		difficulty:     NewDifficultyEngine(),
		gate:           NewTierGate(),
	}
}

// CreateSlip validates, prices and persists a new draft slip. The user's
// tier is fetched once per call; every derived field is computed server side
// regardless of what the client sent.
func (s *slipService) CreateSlip(ctx context.Context, userID int64, name string, picks []entities.PickInput, stake int64) (*entities.Slip, error) {
	if len(picks) < 1 || len(picks) > entities.MaxPicksPerSlip {
		return nil, entities.NewBadRequestError("a slip needs between 1 and %d picks, got %d", entities.MaxPicksPerSlip, len(picks))
	}
	if stake < 0 {
		return nil, entities.NewValidationError("stake", "stake cannot be negative")
	}

	userTier, err := s.userRepo.GetTier(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user tier: %w", err)
	}

	if err := s.checkEventsBiddable(ctx, picks); err != nil {
		return nil, err
	}

	slipPicks := make([]*entities.SlipPick, 0, len(picks))
	for i := range picks {
		sp, err := s.pricePick(&picks[i], userTier)
		if err != nil {
			return nil, err
		}
		slipPicks = append(slipPicks, sp)
	}

	slip := &entities.Slip{
		UserID: userID,
		Name:   name,
		Status: entities.SlipStatusDraft,
		Picks:  slipPicks,
		Stake:  stake,
	}
	s.recomputeAggregates(slip)

	if err := s.slipRepo.Create(ctx, slip); err != nil {
		return nil, fmt.Errorf("failed to create slip: %w", err)
	}

	if err := s.eventPublisher.Publish(events.SlipCreatedEvent{
		SlipID:    slip.ID,
		UserID:    userID,
		PickCount: len(slip.Picks),
	}); err != nil {
		log.WithError(err).Error("Failed to publish slip created event")
	}

	return slip, nil
}

// GetSlipByID returns a slip owned by the user
func (s *slipService) GetSlipByID(ctx context.Context, slipID, userID int64) (*entities.Slip, error) {
	slip, err := s.slipRepo.GetByID(ctx, slipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slip: %w", err)
	}
	if slip == nil || slip.UserID != userID {
		return nil, entities.NewNotFoundError("slip", slipID)
	}
	return slip, nil
}

// GetUserSlips returns a page of the user's slips and the total count
func (s *slipService) GetUserSlips(ctx context.Context, userID int64, q entities.SlipListQuery) ([]*entities.Slip, int64, error) {
	q.Normalize()

	slips, err := s.slipRepo.ListByUser(ctx, userID, q)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list slips: %w", err)
	}
	total, err := s.slipRepo.CountByUser(ctx, userID, q.Status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count slips: %w", err)
	}
	return slips, total, nil
}

// UpdateSlip applies a partial edit to a draft slip. Remaining picks are
// re-gated against the user's current tier, new picks are validated and
// priced exactly like create, and every aggregate is recomputed from the
// post-mutation pick set rather than incrementally.
func (s *slipService) UpdateSlip(ctx context.Context, slipID, userID int64, update entities.SlipUpdate) (*entities.Slip, error) {
	slip, err := s.ownedDraft(ctx, slipID, userID)
	if err != nil {
		return nil, err
	}

	userTier, err := s.userRepo.GetTier(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user tier: %w", err)
	}

	removing := make(map[int64]bool, len(update.RemovePickIDs))
	for _, id := range update.RemovePickIDs {
		if slip.FindPick(id) == nil {
			return nil, entities.NewBadRequestError("pick %d does not belong to slip %d", id, slipID)
		}
		removing[id] = true
	}

	// A tier can drop between requests; access granted at creation time is
	// never trusted for picks that stay on the slip.
	remaining := make([]*entities.SlipPick, 0, len(slip.Picks))
	for _, p := range slip.Picks {
		if removing[p.ID] {
			continue
		}
		if err := s.gate.CheckAccess(p.MarketType, userTier); err != nil {
			return nil, err
		}
		remaining = append(remaining, p)
	}

	var added []*entities.SlipPick
	if len(update.AddPicks) > 0 {
		if err := s.checkEventsBiddable(ctx, update.AddPicks); err != nil {
			return nil, err
		}
		for i := range update.AddPicks {
			sp, err := s.pricePick(&update.AddPicks[i], userTier)
			if err != nil {
				return nil, err
			}
			added = append(added, sp)
		}
	}

	total := len(remaining) + len(added)
	if total < 1 {
		return nil, entities.NewBadRequestError("slip cannot be left without picks; delete it instead")
	}
	if total > entities.MaxStoredPicks {
		return nil, entities.NewBadRequestError("slip cannot hold more than %d picks", entities.MaxStoredPicks)
	}

	if len(update.RemovePickIDs) > 0 {
		if err := s.slipRepo.DeletePicks(ctx, slipID, update.RemovePickIDs); err != nil {
			return nil, fmt.Errorf("failed to remove picks: %w", err)
		}
	}
	if len(added) > 0 {
		if err := s.slipRepo.InsertPicks(ctx, slipID, added); err != nil {
			return nil, fmt.Errorf("failed to add picks: %w", err)
		}
	}

	if update.Name != nil {
		slip.Name = *update.Name
	}
	if update.Stake != nil {
		if *update.Stake < 0 {
			return nil, entities.NewValidationError("stake", "stake cannot be negative")
		}
		slip.Stake = *update.Stake
	}

	slip.Picks = append(remaining, added...)
	s.recomputeAggregates(slip)

	if err := s.slipRepo.Update(ctx, slip); err != nil {
		return nil, fmt.Errorf("failed to update slip: %w", err)
	}

	return slip, nil
}

// LockSlip is the authoritative pass. Tier access is re-validated for every
// pick, coin costs are re-derived from current odds with cached values
// ignored, and minimum spend is enforced before any state changes. The whole
// pass runs inside one unit of work, so a failure leaves nothing applied.
func (s *slipService) LockSlip(ctx context.Context, slipID, userID int64) (*entities.Slip, error) {
	slip, err := s.ownedDraft(ctx, slipID, userID)
	if err != nil {
		return nil, err
	}
	if len(slip.Picks) == 0 {
		return nil, entities.NewBadRequestError("cannot lock an empty slip")
	}

	userTier, err := s.userRepo.GetTier(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user tier: %w", err)
	}

	for _, pick := range slip.Picks {
		if err := s.gate.CheckAccess(pick.MarketType, userTier); err != nil {
			return nil, err
		}

		current := pick.AmericanOdds
		if s.oddsProvider != nil {
			quoted, found, err := s.oddsProvider.CurrentOdds(ctx, pick.EventID, pick.MarketType, pick.Selection)
			if err != nil {
				return nil, fmt.Errorf("failed to look up current odds for event %d: %w", pick.EventID, err)
			}
			if found && s.odds.IsValidAmericanOdds(quoted) {
				current = quoted
			}
		}

		prob := s.odds.ToImpliedProbability(current)
		decimal := s.odds.ToDecimal(current)
		cost := s.pricing.CalculateCoinCost(prob.Value, userTier)

		pick.AmericanOdds = current
		pick.DecimalOdds = decimal.Value
		pick.CoinCost = cost.CoinCost
		pick.PointValue = s.difficulty.PointValue(current)
		pick.RequiredTier = s.gate.RequiredTier(pick.MarketType)

		if err := s.slipRepo.UpdatePickPricing(ctx, pick); err != nil {
			return nil, fmt.Errorf("failed to reprice pick %d: %w", pick.ID, err)
		}
	}

	s.recomputeAggregates(slip)

	check := ValidateMinimumSpend(len(slip.Picks), slip.TotalCoinCost)
	if !check.OK {
		return nil, entities.NewBadRequestError(
			"minimum spend not met: %s required, slip totals %s (short %d)",
			utils.FormatCoins(check.Required), utils.FormatCoins(check.TotalCoinCost), check.Shortfall)
	}

	now := time.Now().UTC()
	slip.Status = entities.SlipStatusPending
	slip.LockedAt = &now
	slip.CoinSpendMet = true

	if err := s.slipRepo.Update(ctx, slip); err != nil {
		return nil, fmt.Errorf("failed to lock slip: %w", err)
	}

	log.WithFields(log.Fields{
		"slipID":        slip.ID,
		"userID":        userID,
		"picks":         len(slip.Picks),
		"totalCoinCost": slip.TotalCoinCost,
		"totalOdds":     slip.TotalOdds,
	}).Info("Slip locked")

	if err := s.eventPublisher.Publish(events.SlipLockedEvent{
		SlipID:         slip.ID,
		UserID:         userID,
		PickCount:      len(slip.Picks),
		TotalCoinCost:  slip.TotalCoinCost,
		PointPotential: slip.PointPotential,
		TotalOdds:      slip.TotalOdds,
	}); err != nil {
		log.WithError(err).Error("Failed to publish slip locked event")
	}

	return slip, nil
}

// DeleteSlip removes a draft slip; picks cascade with it
func (s *slipService) DeleteSlip(ctx context.Context, slipID, userID int64) error {
	if _, err := s.ownedDraft(ctx, slipID, userID); err != nil {
		return err
	}
	if err := s.slipRepo.Delete(ctx, slipID); err != nil {
		return fmt.Errorf("failed to delete slip: %w", err)
	}
	return nil
}

// ValidateDraftPicks checks an offline draft against current server state:
// per pick, whether the event still exists and is biddable, and whether the
// known odds drifted from the client's cached odds. Never mutates state.
func (s *slipService) ValidateDraftPicks(ctx context.Context, picks []entities.PickInput) ([]entities.PickValidation, error) {
	if len(picks) > entities.MaxPicksPerSlip {
		return nil, entities.NewBadRequestError("cannot validate more than %d picks", entities.MaxPicksPerSlip)
	}

	eventIDs := make([]int64, 0, len(picks))
	for i := range picks {
		eventIDs = append(eventIDs, picks[i].EventID)
	}
	eventsByID, err := s.eventRepo.GetByIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up events: %w", err)
	}

	now := time.Now().UTC()
	results := make([]entities.PickValidation, 0, len(picks))
	for i := range picks {
		pick := &picks[i]
		result := entities.PickValidation{Index: i, EventID: pick.EventID}

		if err := pick.Validate(); err != nil {
			result.Problem = err.Error()
			results = append(results, result)
			continue
		}

		ev, exists := eventsByID[pick.EventID]
		result.EventExists = exists
		if !exists {
			result.Problem = fmt.Sprintf("event %d no longer exists", pick.EventID)
			results = append(results, result)
			continue
		}
		result.Biddable = ev.IsBiddable(now)
		if !result.Biddable {
			result.Problem = fmt.Sprintf("event %d has started or been cancelled", pick.EventID)
			results = append(results, result)
			continue
		}

		if s.oddsProvider != nil {
			quoted, found, err := s.oddsProvider.CurrentOdds(ctx, pick.EventID, pick.MarketType, pick.Selection)
			if err != nil {
				return nil, fmt.Errorf("failed to look up current odds for event %d: %w", pick.EventID, err)
			}
			if found {
				result.CurrentOdds = &quoted
				result.OddsChanged = quoted != pick.AmericanOdds
			}
		}

		result.Valid = true
		results = append(results, result)
	}

	return results, nil
}

// ownedDraft loads a slip, verifies ownership and that it is still mutable
func (s *slipService) ownedDraft(ctx context.Context, slipID, userID int64) (*entities.Slip, error) {
	slip, err := s.slipRepo.GetByID(ctx, slipID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slip: %w", err)
	}
	if slip == nil || slip.UserID != userID {
		return nil, entities.NewNotFoundError("slip", slipID)
	}
	if !slip.IsMutable() {
		return nil, entities.NewBadRequestError("slip %d is %s; only draft slips can be modified", slipID, slip.Status)
	}
	return slip, nil
}

// pricePick validates a submitted pick and computes every server-owned
// field. Client-supplied point values or costs never enter here.
func (s *slipService) pricePick(input *entities.PickInput, userTier entities.Tier) (*entities.SlipPick, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.gate.CheckAccess(input.MarketType, userTier); err != nil {
		return nil, err
	}

	prob := s.odds.ToImpliedProbability(input.AmericanOdds)
	decimal := s.odds.ToDecimal(input.AmericanOdds)
	cost := s.pricing.CalculateCoinCost(prob.Value, userTier)

	return &entities.SlipPick{
		EventID:      input.EventID,
		MarketType:   input.MarketType,
		Selection:    input.Selection,
		Line:         input.Line,
		AmericanOdds: input.AmericanOdds,
		DecimalOdds:  decimal.Value,
		PointValue:   s.difficulty.PointValue(input.AmericanOdds),
		CoinCost:     cost.CoinCost,
		RequiredTier: s.gate.RequiredTier(input.MarketType),
		Status:       entities.PickStatusPending,
	}, nil
}

// checkEventsBiddable verifies every referenced event exists and has not
// started or been cancelled
func (s *slipService) checkEventsBiddable(ctx context.Context, picks []entities.PickInput) error {
	eventIDs := make([]int64, 0, len(picks))
	for i := range picks {
		eventIDs = append(eventIDs, picks[i].EventID)
	}

	eventsByID, err := s.eventRepo.GetByIDs(ctx, eventIDs)
	if err != nil {
		return fmt.Errorf("failed to look up events: %w", err)
	}

	now := time.Now().UTC()
	for _, id := range eventIDs {
		ev, ok := eventsByID[id]
		if !ok {
			return entities.NewNotFoundError("event", id)
		}
		if !ev.IsBiddable(now) {
			return entities.NewBadRequestError("event %d has already started or been cancelled", id)
		}
	}
	return nil
}

// recomputeAggregates rebuilds every derived slip field from the full pick
// set. Existing picks contribute their stored odds and values, so a mixed
// add+remove edit cannot drift the totals.
func (s *slipService) recomputeAggregates(slip *entities.Slip) {
	var totalCost int64
	totalOdds := 1.0
	pointValues := make([]int, 0, len(slip.Picks))

	for _, p := range slip.Picks {
		totalCost += p.CoinCost
		totalOdds *= p.DecimalOdds
		pointValues = append(pointValues, p.PointValue)
	}
	if len(slip.Picks) == 0 {
		totalOdds = 0
	}

	slip.TotalCoinCost = totalCost
	slip.TotalOdds = totalOdds
	slip.PointPotential = s.difficulty.SlipPointPotential(pointValues)
	slip.MinCoinSpend = MinimumCoinSpend(len(slip.Picks))
	slip.PotentialPayout = int64(math.Round(float64(slip.Stake) * totalOdds))
}
