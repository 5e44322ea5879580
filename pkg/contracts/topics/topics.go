package topics

const (
	// Liquidação
	WagerSettled = "wager_settled"
)
