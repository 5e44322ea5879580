package results

// Snapshot é o resultado autoritativo de uma partida conforme a fonte externa.
// Campos de estatística são ponteiros: nil significa que a fonte não cobre a
// estatística para essa partida, o que não é o mesmo que zero.
type Snapshot struct {
	FixtureID   string `json:"fixture_id"`
	Finished    bool   `json:"finished"`
	HomeScore   int    `json:"home_score"`
	AwayScore   int    `json:"away_score"`
	HasHalfTime bool   `json:"has_half_time"`
	HomeScoreHT int    `json:"home_score_ht"`
	AwayScoreHT int    `json:"away_score_ht"`
	Corners     *int   `json:"corners,omitempty"`
	Cards       *int   `json:"cards,omitempty"`
	TotalShots  *int   `json:"total_shots,omitempty"`
}

// PlayerStats é a linha de um jogador no relatório pós-jogo (futebol apenas).
type PlayerStats struct {
	Name          string `json:"name"`
	MinutesPlayed int    `json:"minutes_played"`
	Shots         int    `json:"shots"`
	ShotsOnTarget int    `json:"shots_on_target"`
	Assists       int    `json:"assists"`
	Passes        int    `json:"passes"`
	Tackles       int    `json:"tackles"`
}
