package common

import (
	"math"
	"sort"

	"cromulator/cromulator"
)

// ScoreStats 重排过程中每步得分的统计信息
type ScoreStats struct {
	Steps  int     `json:"steps"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Sum    int     `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Q1     float64 `json:"q1"` // 第一四分位数
	Q3     float64 `json:"q3"` // 第三四分位数
	// 放在头部的步数及比率
	HeadCount int     `json:"head_count"`
	HeadRatio float64 `json:"head_ratio"`
	// 得分 >= 0 的步数（拼接没有带来收益）
	NoGainCount int `json:"no_gain_count"`
}

// SummarizeScores 统计每步得分
func SummarizeScores(steps []cromulator.Step) *ScoreStats {
	stats := &ScoreStats{}
	n := len(steps)
	if n == 0 {
		return stats
	}
	stats.Steps = n
	stats.Min = math.MaxInt
	stats.Max = math.MinInt

	scores := make([]float64, 0, n)
	for _, s := range steps {
		if s.Score < stats.Min {
			stats.Min = s.Score
		}
		if s.Score > stats.Max {
			stats.Max = s.Score
		}
		stats.Sum += s.Score
		if s.Side == cromulator.Head {
			stats.HeadCount++
		}
		if s.Score >= 0 {
			stats.NoGainCount++
		}
		scores = append(scores, float64(s.Score))
	}
	stats.Mean = float64(stats.Sum) / float64(n)
	stats.HeadRatio = float64(stats.HeadCount) / float64(n)

	var variance float64
	for _, v := range scores {
		d := v - stats.Mean
		variance += d * d
	}
	stats.StdDev = math.Sqrt(variance / float64(n))

	sort.Float64s(scores)
	stats.Median = percentile(scores, 0.5)
	stats.Q1 = percentile(scores, 0.25)
	stats.Q3 = percentile(scores, 0.75)
	return stats
}

// percentile 线性插值，sorted 必须已排序
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
