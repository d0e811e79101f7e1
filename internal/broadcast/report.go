// Package broadcast はニュースレターの一斉配信パイプラインを提供する。
// 配信は逐次処理で、外部メールAPIのレート上限を超えないよう送信間隔を制御する。
package broadcast

// Report は1回の配信の結果集計。
// 処理した受信者数は SentCount + ErrorCount に一致する。
type Report struct {
	SentCount  int `json:"sent_count"`
	ErrorCount int `json:"error_count"`
}

// AddSuccess は送信成功を1件記録する。
func (r *Report) AddSuccess() {
	r.SentCount++
}

// AddFailure は送信失敗を1件記録する。
func (r *Report) AddFailure() {
	r.ErrorCount++
}

// Attempted は処理済みの受信者数を返す。
func (r *Report) Attempted() int {
	return r.SentCount + r.ErrorCount
}
