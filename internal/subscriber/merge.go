package subscriber

import "sort"

// DefaultSegment はセグメント指定なしの購読登録に付与される既定セグメント。
const DefaultSegment = "newsletter"

// MergeSegments は既存セグメントとリクエストされたセグメントの和集合を返す。
// 重複は除去され、結果はソート済みで決定的。
// requestedが空の場合は既定セグメント{"newsletter"}をリクエストとして扱う。
//
// 純粋関数であり、可換かつ冪等:
//
//	MergeSegments(MergeSegments(a, b), b) == MergeSegments(a, b)
func MergeSegments(existing, requested []string) []string {
	if len(requested) == 0 {
		requested = []string{DefaultSegment}
	}

	set := make(map[string]struct{}, len(existing)+len(requested))
	for _, s := range existing {
		if s != "" {
			set[s] = struct{}{}
		}
	}
	for _, s := range requested {
		if s != "" {
			set[s] = struct{}{}
		}
	}

	merged := make([]string, 0, len(set))
	for s := range set {
		merged = append(merged, s)
	}
	sort.Strings(merged)

	return merged
}
