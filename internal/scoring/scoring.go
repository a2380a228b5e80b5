// Package scoring turns a finalized layout into a preview result. It is a
// pure function of its inputs: the same grid, article set and coefficient
// table always produce the identical SubmissionResult, because the preview
// shown at submit time and the numbers applied at publish time must agree.
package scoring

import (
	"muckraker/internal/model"
)

// SlotWeight returns the reach weight for a grid position.
func SlotWeight(c Coefficients, i int) int {
	switch model.SlotKindAt(i) {
	case model.SlotHeadline:
		return c.HeadlineWeight
	case model.SlotSubLead:
		return c.SubLeadWeight
	default:
		return c.BriefWeight
	}
}

// ComputePreview scores a layout. Slots referencing unknown articles or ads
// are treated as empty; grid validation is the publish path's concern.
// An entirely empty grid yields the zero result.
func ComputePreview(
	grid []model.GridPlacement,
	articles map[int64]model.GeneratedArticle,
	ads map[int64]model.Ad,
	c Coefficients,
) model.SubmissionResult {
	balance := make(map[string]int, len(model.FactionKeys))
	for _, key := range model.FactionKeys {
		balance[key] = 0
	}

	var (
		filled        int
		outragePoints int
		adRevenue     int
		factualN      int
		sensationalN  int
		propagandaN   int
	)

	for i, p := range grid {
		if i >= model.GridSize {
			break
		}
		if p.Empty() {
			continue
		}

		if p.AdID != 0 {
			ad, ok := ads[p.AdID]
			if !ok {
				continue
			}
			filled++
			adRevenue += ad.Revenue
			continue
		}

		article, ok := articles[p.ArticleID]
		if !ok {
			continue
		}
		filled++

		weight := SlotWeight(c, i)
		scores := article.AudienceScores.Normalized()
		for _, key := range model.FactionKeys {
			balance[key] += weight * scores[key]
		}

		switch p.Variant {
		case model.VariantSensationalist:
			sensationalN++
			outragePoints += c.OutrageSensationalist
		case model.VariantPropaganda:
			propagandaN++
			outragePoints += c.OutragePropaganda
		default:
			factualN++
		}

		if article.Sentiment == "negative" {
			outragePoints += c.OutrageNegativeSentiment
		}
	}

	if filled == 0 {
		return model.SubmissionResult{FactionBalance: balance}
	}

	outrage := clamp(outragePoints, 0, 100)

	sum, min, max := 0, balance[model.FactionKeys[0]], balance[model.FactionKeys[0]]
	for _, key := range model.FactionKeys {
		v := balance[key]
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / len(model.FactionKeys)
	spread := max - min

	sales := c.BaseReadership * (100 + c.SalesBalancePercent*mean) / 100
	penalty := clamp(c.CredibilityPenalty*outrage/2, 0, 100)
	sales = sales * (100 - penalty) / 100
	sales += adRevenue
	if sales < 0 {
		sales = 0
	}

	credDelta := c.FactualCredit*factualN - c.SensationalistCost*sensationalN - c.PropagandaCost*propagandaN
	readerDelta := sales/c.ReadersPerSale + outrage/c.OutrageReaderDraw

	score := sales*c.ScoreSalesWeight/10 - spread*c.ScoreSpreadPenalty - outrage*c.ScoreOutragePenalty
	if score < 0 {
		score = 0
	}

	return model.SubmissionResult{
		Score:            score,
		Sales:            sales,
		OutrageMeter:     outrage,
		FactionBalance:   balance,
		CredibilityDelta: credDelta,
		ReaderDelta:      readerDelta,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
