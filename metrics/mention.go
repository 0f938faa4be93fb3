package metrics

import (
	"math"

	"github.com/weaksignal/lfkit/pkg/errors"
	"github.com/weaksignal/lfkit/pkg/log"
)

// Scores は候補単位の評価指標をまとめたもの
type Scores struct {
	Precision float64
	Recall    float64
	F1        float64
	Accuracy  float64
}

// MentionReport は閾値判定の結果を候補インデックスごとに仕分けしたもの
//
// TP/FP/TN/FN は入力スライスにおけるインデックスのリストで、
// エラー分析のためにどの候補がどう誤ったかを辿れるようにしている。
// 正解ラベルが 0（未付与）の候補はどのバケットにも入らない。
type MentionReport struct {
	TP []int
	FP []int
	TN []int
	FN []int

	Scores Scores
}

// MentionScore は周辺確率を閾値 b で二値化し、正解ラベルと突き合わせて
// 候補単位の評価を行う
//
// パラメータ:
//   - probs: 各候補の正例周辺確率（[0, 1]）
//   - gold: 正解ラベル（-1, +1、未付与は 0）
//   - b: 判定閾値（p > b で正例と判定）
//
// 戻り値:
//   - *MentionReport: バケット別インデックスと評価指標
//   - error: 入力が不正な場合、または採点対象が 1 件もない場合のエラー
func MentionScore(probs []float64, gold []int, b float64) (*MentionReport, error) {
	// 入力検証
	n := len(probs)
	if n == 0 {
		return nil, errors.NewValueError("MentionScore", "empty probability slice")
	}

	if len(gold) != n {
		return nil, errors.NewDimensionError("MentionScore", n, len(gold), 0)
	}

	if math.IsNaN(b) || b < 0 || b > 1 {
		return nil, errors.NewValidationError("b", "decision threshold must be in [0, 1]", b)
	}

	report := &MentionReport{}
	for i := 0; i < n; i++ {
		p := probs[i]
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, errors.NewValueError("MentionScore", "probabilities must be in [0, 1]")
		}

		g := gold[i]
		if g == 0 {
			continue
		}
		if g != -1 && g != 1 {
			return nil, errors.NewValueError("MentionScore", "gold labels must be -1, 0 or +1")
		}

		pos := p > b
		switch {
		case g == 1 && pos:
			report.TP = append(report.TP, i)
		case g == -1 && pos:
			report.FP = append(report.FP, i)
		case g == -1 && !pos:
			report.TN = append(report.TN, i)
		default:
			report.FN = append(report.FN, i)
		}
	}

	labeled := len(report.TP) + len(report.FP) + len(report.TN) + len(report.FN)
	if labeled == 0 {
		return nil, errors.NewValueError("MentionScore", "no labeled examples to score")
	}

	c := Confusion{TP: len(report.TP), FP: len(report.FP), TN: len(report.TN), FN: len(report.FN)}
	precision, recall, f1 := confusionScores(c)
	report.Scores = Scores{
		Precision: precision,
		Recall:    recall,
		F1:        f1,
		Accuracy:  float64(c.TP+c.TN) / float64(labeled),
	}

	logger := log.GetLoggerWithName("metrics")
	logger.Info("mention scores",
		log.PrecisionKey, report.Scores.Precision,
		log.RecallKey, report.Scores.Recall,
		log.F1Key, report.Scores.F1,
		log.AccuracyKey, report.Scores.Accuracy,
		log.ThresholdKey, b,
		log.SamplesKey, labeled,
	)

	return report, nil
}
