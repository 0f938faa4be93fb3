package metrics

import (
	"github.com/weaksignal/lfkit/pkg/errors"
)

// Confusion は二値分類の混同行列カウントを保持する
//
// ラベルは +1 が正例、-1 が負例の規約に従う。
type Confusion struct {
	TP int // 真陽性
	FP int // 偽陽性
	TN int // 真陰性
	FN int // 偽陰性
}

// ConfusionCounts は正解ラベルと予測ラベルから混同行列を計算する
//
// パラメータ:
//   - yTrue: 正解ラベル（各要素は -1 または +1）
//   - yPred: 予測ラベル（各要素は -1 または +1）
//
// 戻り値:
//   - Confusion: TP/FP/TN/FN のカウント
//   - error: 入力が不正な場合のエラー
func ConfusionCounts(yTrue, yPred []int) (Confusion, error) {
	// 入力検証
	n := len(yTrue)
	if n == 0 {
		return Confusion{}, errors.NewValueError("ConfusionCounts", "empty label slice")
	}

	if len(yPred) != n {
		return Confusion{}, errors.NewDimensionError("ConfusionCounts", n, len(yPred), 0)
	}

	var c Confusion
	for i := 0; i < n; i++ {
		t, p := yTrue[i], yPred[i]
		if t != -1 && t != 1 {
			return Confusion{}, errors.NewValueError("ConfusionCounts", "labels must be -1 or +1")
		}
		if p != -1 && p != 1 {
			return Confusion{}, errors.NewValueError("ConfusionCounts", "predictions must be -1 or +1")
		}

		switch {
		case t == 1 && p == 1:
			c.TP++
		case t == -1 && p == 1:
			c.FP++
		case t == -1 && p == -1:
			c.TN++
		default:
			c.FN++
		}
	}

	return c, nil
}

// Accuracy は正解率を計算する
//
// Accuracy = (TP + TN) / n
func Accuracy(yTrue, yPred []int) (float64, error) {
	c, err := ConfusionCounts(yTrue, yPred)
	if err != nil {
		return 0, err
	}

	n := c.TP + c.FP + c.TN + c.FN
	return float64(c.TP+c.TN) / float64(n), nil
}

// PrecisionRecallF1 は適合率・再現率・F1スコアを計算する
//
// 分母が 0 になる場合は UndefinedMetricWarning を警告ハンドラに通知し、
// 該当する指標は 0 を返す（scikit-learn の zero_division=0 と同じ挙動）。
//
// 戻り値:
//   - precision: TP / (TP + FP)
//   - recall: TP / (TP + FN)
//   - f1: 適合率と再現率の調和平均
//   - error: 入力が不正な場合のエラー
func PrecisionRecallF1(yTrue, yPred []int) (precision, recall, f1 float64, err error) {
	c, err := ConfusionCounts(yTrue, yPred)
	if err != nil {
		return 0, 0, 0, err
	}

	precision, recall, f1 = confusionScores(c)
	return precision, recall, f1, nil
}

// confusionScores は混同行列から適合率・再現率・F1を導出する
func confusionScores(c Confusion) (precision, recall, f1 float64) {
	if c.TP+c.FP == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no positive predictions", 0))
	} else {
		precision = float64(c.TP) / float64(c.TP+c.FP)
	}

	if c.TP+c.FN == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no positive labels", 0))
	} else {
		recall = float64(c.TP) / float64(c.TP+c.FN)
	}

	if precision+recall == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("f1", "precision and recall are both zero", 0))
	} else {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return precision, recall, f1
}
