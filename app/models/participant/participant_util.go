package participant

import (
	"github.com/boshenzh/werox-wechat-mini-program/app/models"
)

// Scores 能力评分
type Scores struct {
	Strength  models.Float `json:"strength"`
	Endurance models.Float `json:"endurance"`
}

// FinalScores 最终得分，未评定时为基础分加教练调整
func (p *Participant) FinalScores() (strength, endurance models.Float) {
	strength, endurance = p.FinalStrength, p.FinalEndurance
	if strength == 0 {
		strength = p.BaseStrength + p.CoachAdjustStrength
	}
	if endurance == 0 {
		endurance = p.BaseEndurance + p.CoachAdjustEndurance
	}
	return strength, endurance
}

// ComputeScores 多次参赛的平均得分，保留一位小数
func ComputeScores(records []Participant) Scores {
	if len(records) == 0 {
		return Scores{}
	}

	var strengthSum, enduranceSum models.Float
	for i := range records {
		s, e := records[i].FinalScores()
		strengthSum += s
		enduranceSum += e
	}

	n := models.Float(len(records))
	return Scores{
		Strength:  (strengthSum / n).Round1(),
		Endurance: (enduranceSum / n).Round1(),
	}
}
