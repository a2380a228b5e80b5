package scoring

// Coefficients is the tunable economy table. All scoring math flows through
// one of these so a rebalance is a new version, not a code change.
type Coefficients struct {
	Version string

	// Slot reach weights.
	HeadlineWeight int
	SubLeadWeight  int
	BriefWeight    int

	// Outrage points per filled slot.
	OutrageSensationalist    int
	OutragePropaganda        int
	OutrageNegativeSentiment int

	// Sales economics.
	BaseReadership      int
	SalesBalancePercent int // percent of sales added per point of mean faction balance
	CredibilityPenalty  int // percent of sales removed per 2 points of outrage

	// Credibility deltas per variant on the page.
	FactualCredit      int
	SensationalistCost int
	PropagandaCost     int

	// Reader conversion.
	ReadersPerSale    int
	OutrageReaderDraw int

	// Score composition.
	ScoreSalesWeight    int // applied as sales*w/10
	ScoreSpreadPenalty  int
	ScoreOutragePenalty int
}

// V1 is the current balance table.
var V1 = Coefficients{
	Version: "v1",

	HeadlineWeight: 3,
	SubLeadWeight:  2,
	BriefWeight:    1,

	OutrageSensationalist:    12,
	OutragePropaganda:        18,
	OutrageNegativeSentiment: 8,

	BaseReadership:      1000,
	SalesBalancePercent: 2,
	CredibilityPenalty:  1,

	FactualCredit:      2,
	SensationalistCost: 1,
	PropagandaCost:     3,

	ReadersPerSale:    20,
	OutrageReaderDraw: 10,

	ScoreSalesWeight:    5,
	ScoreSpreadPenalty:  2,
	ScoreOutragePenalty: 1,
}
