package billing

const (
	DefaultStampsPerReward = 10
	DefaultRewardAmount    = 4000
)

// StampCard is the customer-facing view of a loyalty card.
type StampCard struct {
	TotalStamps     int64 `json:"totalStamps"`
	CompletedCycles int64 `json:"completedCycles"`
	Required        int64 `json:"required"`
}

// Card folds a raw stamp count into the current cycle.
func Card(total int64, required int) StampCard {
	r := int64(required)
	if r <= 0 {
		r = DefaultStampsPerReward
	}
	return StampCard{
		TotalStamps:     total % r,
		CompletedCycles: total / r,
		Required:        r,
	}
}

// CanRedeem reports whether completed cycles exceed rewards already paid.
func CanRedeem(total int64, required int, granted int64) bool {
	return Card(total, required).CompletedCycles > granted
}

// PlatformFee is percent of amount, rounded down to whole cents.
func PlatformFee(amount int64, percent int) int64 {
	if percent <= 0 || amount <= 0 {
		return 0
	}
	return amount * int64(percent) / 100
}
