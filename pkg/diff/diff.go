// Package diff computes field level changes between entity snapshots
// Package diff 计算实体快照之间的字段级变更
package diff

// Change is one field's before and after value
// Change 单个字段的变更前后值
type Change struct {
	Field string `json:"field"`
	From  any    `json:"from"`
	To    any    `json:"to"`
}

// Diff compares newer against older and returns the fields whose values differ.
// Every field of newer not in exclude is compared with Equal. A field missing from older is
// always reported, even when its new value is nil, so diffing against an empty snapshot lists
// every field.
// Changes follow newer's field order.
// Diff 比较新旧快照，返回值不同的字段
// newer 中不在 exclude 内的字段逐一用 Equal 比较；older 缺失的字段总会输出，新值为 nil 也不例外
// 结果按 newer 的字段顺序排列
func Diff(older, newer Snapshot, exclude FieldSet) []Change {
	var changes []Change
	for _, name := range newer.keys {
		if exclude.Has(name) {
			continue
		}
		to := newer.values[name]
		from := older.values[name]
		if older.Has(name) && Equal(from, to) {
			continue
		}
		changes = append(changes, Change{Field: name, From: normalize(from), To: normalize(to)})
	}
	return changes
}

// Retract describes the removal of every field of older: From holds the old value and To is nil.
// Nil fields and excluded fields are skipped.
// Retract 描述 older 全部字段被移除：From 为旧值，To 为 nil
func Retract(older Snapshot, exclude FieldSet) []Change {
	var changes []Change
	for _, name := range older.keys {
		if exclude.Has(name) {
			continue
		}
		from := normalize(older.values[name])
		if from == nil {
			continue
		}
		changes = append(changes, Change{Field: name, From: from, To: nil})
	}
	return changes
}
